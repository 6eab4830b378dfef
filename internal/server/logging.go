package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dropa-gg/dropa/internal/logger"
)

const maxRequestIDLen = 64

var quietPaths = []string{"/healthz", "/readyz", "/metrics"}

// loggingMiddleware tags the request with an ID and logs start and completion.
// A gateway-supplied X-Request-ID is kept when it is short enough.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		log := logger.FromContext(ctx).With("method", r.Method, "path", r.URL.Path)

		log.Info(LogMsgRequestStarted,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		began := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info(LogMsgRequestCompleted,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(began).Milliseconds())
	})
}

func isQuietPath(path string) bool {
	for _, p := range quietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range []string{HeaderAPIKey, HeaderAuthorization} {
		if out.Get(name) != "" {
			out.Set(name, RedactedValue)
		}
	}
	return out
}
