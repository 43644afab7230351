package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

const (
	defaultRequestsPerMinute = 100
	maxRequestBody           = 1 << 20 // allocation grids stay well under 1 MB
	handlerTimeout           = 30 * time.Second
)

// ServerConfig holds the options for NewRouter.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	// RequestsPerMinute caps requests per client IP. Zero means 100.
	RequestsPerMinute int
}

// Middlewares are the process-specific layers NewRouter places around the
// standard stack. A nil entry is skipped.
type Middlewares struct {
	Recovery func(http.Handler) http.Handler // outermost, catches re-panics from Sentry
	Sentry   func(http.Handler) http.Handler
	Tracing  func(http.Handler) http.Handler // after RequestID so spans see it
	Logging  func(http.Handler) http.Handler
}

// NewRouter returns a chi.Mux with the service middleware stack, outermost
// first: Recovery, Sentry, RequestID, Tracing, Logging, RealIP, per-IP rate
// limit, CORS, body limit, handler timeout, security headers.
func NewRouter(cfg ServerConfig, mw Middlewares) *chi.Mux {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaultRequestsPerMinute
	}

	stack := make([]func(http.Handler) http.Handler, 0, 11)
	stack = appendNonNil(stack, mw.Recovery, mw.Sentry)
	stack = append(stack, middleware.RequestID)
	stack = appendNonNil(stack, mw.Tracing, mw.Logging)
	stack = append(stack,
		middleware.RealIP,
		httprate.LimitByIP(rpm, time.Minute),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(maxRequestBody),
		middleware.Timeout(handlerTimeout),
		securityHeaders(cfg.IsDevelopment).Handler,
	)

	r := chi.NewRouter()
	r.Use(stack...)
	return r
}

func appendNonNil(stack []func(http.Handler) http.Handler, mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	for _, m := range mws {
		if m != nil {
			stack = append(stack, m)
		}
	}
	return stack
}

// securityHeaders serves a JSON API and the Swagger UI; the CSP allows the
// UI's inline bootstrap script and nothing else.
func securityHeaders(dev bool) *secure.Secure {
	return secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=()",
		IsDevelopment:         dev,
	})
}

// CORSMiddleware allows the comma-separated origins (or "*" in development).
// The session cookie is only sent to explicit origins.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)
	wildcard := len(origins) == 1 && origins[0] == "*"
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Total-Count"},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit caps the request body at maxBytes. Reads past the cap fail
// and validator.ValidateRequest reports them as 413.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server for addr. The write timeout leaves room
// for the handler timeout plus response encoding.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      handlerTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    64 << 10,
	}
}
