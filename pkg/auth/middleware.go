package auth

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/exportdesk/pkg/httpx"
	"github.com/ghuser/exportdesk/pkg/logger"
)

const (
	sessionName        = "exportdesk_session"
	sessionOrgIDKey    = "org_id"
	sessionOperatorKey = "operator"
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the OrgID and operator name, and injects
// both into the request context. Returns 401 Unauthorized if the session is
// missing, invalid, or lacks a valid org_id. The operator is optional.
//
// After this middleware, handlers can safely call auth.OrgIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			orgIDStr, ok := session.Values[sessionOrgIDKey].(string)
			if !ok || orgIDStr == "" {
				log.WarnContext(r.Context(), "session missing org_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			orgID, err := uuid.Parse(orgIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid org_id in session", "org_id", orgIDStr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			ctx := WithOrgID(r.Context(), orgID)
			if op, ok := session.Values[sessionOperatorKey].(string); ok && op != "" {
				ctx = WithOperator(ctx, op)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SaveIdentity writes the organization and operator into the session cookie.
// RequireAuth reads them back on later requests.
func SaveIdentity(w http.ResponseWriter, r *http.Request, store sessions.Store, orgID uuid.UUID, operator string) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	session.Values[sessionOrgIDKey] = orgID.String()
	session.Values[sessionOperatorKey] = operator
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
