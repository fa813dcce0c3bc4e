package api

import (
	"encoding/json/v2"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs each request with method, path, status, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// authRateLimit throttles credential endpoints per client IP.
// Other routes pass through untouched.
func (s *Server) authRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isThrottledAuthPath(r) {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !s.authRateLimiter.Allow(ip) {
			s.logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.MarshalWrite(w, &APIError{
				Code:    "RATE_LIMITED",
				Message: "Too many attempts. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isThrottledAuthPath reports whether the request hits a credential endpoint.
func isThrottledAuthPath(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return r.URL.Path == "/api/v1/auth/login" || r.URL.Path == "/api/v1/auth/register"
}

// clientIP extracts the client IP. RealIP middleware has already folded
// X-Forwarded-For / X-Real-IP into RemoteAddr; strip the port if present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
