// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/observability"
)

// sessionMiddleware reads the session cookie and, when the token resolves
// to a live account, injects that account into the request context. A
// missing or invalid cookie is not an error here: the request continues
// unauthenticated and the services' gate rejects anything protected.
func sessionMiddleware(svc *auth.Service, cookieName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			account, err := svc.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithAccount(r.Context(), account)))
		})
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b) //nolint:wrapcheck // passthrough writer
}

// requestLogMiddleware emits one structured log line per request and
// counts it on the HTTP request metric. The log level follows the status:
// 5xx at error, other failures at warn, everything else at info.
func requestLogMiddleware(logger *slog.Logger, metrics *observability.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			if metrics != nil {
				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.statusCode)).Inc()
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Duration("duration", time.Since(start)),
			}
			if account := AccountFromContext(r.Context()); account != nil {
				attrs = append(attrs, slog.String("account_id", account.ID.String()))
			}

			level := slog.LevelInfo
			switch {
			case rec.statusCode >= 500:
				level = slog.LevelError
			case rec.statusCode >= 400:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request", attrs...)
		})
	}
}
