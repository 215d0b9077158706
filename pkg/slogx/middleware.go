package slogx

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/shopgate/pkg/idx"
)

const (
	RequestIDHeader    = "X-Request-ID"
	ForwardedForHeader = "X-Forwarded-For"
)

// RemoteIP returns the caller's address: the first X-Forwarded-For entry,
// then X-Real-IP, then the host part of RemoteAddr.
func RemoteIP(r *http.Request) string {
	if xff := r.Header.Get(ForwardedForHeader); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// HTTPMiddleware logs one line per request and attaches a request scoped
// logger to the context. The request id is taken from X-Request-ID when the
// caller sent one, and echoed back on the response. The client address is
// kept in the context so outbound service calls can pass it on.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = idx.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			ctx := WithContext(r.Context(), base)
			ctx = WithRequestID(ctx, reqID)
			clientIP := RemoteIP(r)
			ctx = WithClientIP(ctx, clientIP)
			logger := FromContext(ctx).With(
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", clientIP,
			)
			ctx = WithContext(ctx, logger)

			next.ServeHTTP(rw, r.WithContext(ctx))

			level := slog.LevelInfo
			if rw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
