package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/exportdesk/pkg/auth"
	"github.com/ghuser/exportdesk/pkg/errhttp"
	"github.com/ghuser/exportdesk/pkg/httpx"
	"github.com/ghuser/exportdesk/pkg/telemetry"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// writeError renders err and reports unexpected ones to Sentry.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errhttp.IsInternal(err) {
		telemetry.CaptureError(r.Context(), err)
	}
	errhttp.WriteError(w, err)
}

// scope returns the caller's org and the {ref} path parameter, or writes 401.
func scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	orgID, err := auth.OrgIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, err)
		return uuid.Nil, "", false
	}
	return orgID, chi.URLParam(r, "ref"), true
}

// operator returns the signed-in operator, or writes 401.
func operator(w http.ResponseWriter, r *http.Request) (string, bool) {
	op, err := auth.OperatorFromCtx(r.Context())
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	return op, true
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "line index must be a non-negative integer")
		return 0, false
	}
	return index, true
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = defaultPageSize, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageSize)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
