package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// maxRequestBodySize limits form submissions to 1 MB. The forms on this
// site are small; anything larger is hostile or broken.
const maxRequestBodySize = 1 << 20

const requestIDContextKey contextKey = "request_id"

const requestIDHeader = "X-Request-ID"

// statusWriter records the status code written to the response so the
// logging middleware can report it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// requestIDMiddleware assigns each request a unique ID, honouring one
// supplied by a proxy, and echoes it back in the response headers.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs each completed request with its status and timing.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		requestID, _ := r.Context().Value(requestIDContextKey).(string)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
		)
	})
}

// recoveryMiddleware converts handler panics into a rendered 500 page
// instead of a dropped connection.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					"panic", fmt.Sprintf("%v", rec),
					"method", r.Method,
					"path", r.URL.Path,
				)
				s.renderServerError(w, r)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// bodyLimitMiddleware caps the request body size.
func (s *Server) bodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		next.ServeHTTP(w, r)
	})
}

// verifySessionMiddleware checks the session cookie on every request.
//
// No cookie at all means an anonymous visitor: the request continues with
// no identity attached. A cookie that fails verification is a different
// matter entirely. The browser believed it had a session and it does not,
// so the stale cookie is cleared and the visitor is sent to the login page
// rather than silently downgraded to anonymous.
func (s *Server) verifySessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.codec.Verify(cookie.Value)
		if err != nil {
			s.logger.Info("rejected session token",
				"error", err,
				"path", r.URL.Path,
			)
			s.clearSessionCookie(w)
			s.addFlash(w, r, "Please log in.")
			http.Redirect(w, r, "/account/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims.Identity())))
	})
}

// requireAuthenticated admits any verified identity and turns anonymous
// visitors away to the login page.
func (s *Server) requireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFromContext(r.Context()); !ok {
			s.addFlash(w, r, "Please log in.")
			http.Redirect(w, r, "/account/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireStaff admits only Employee and Admin identities. It always runs
// behind requireAuthenticated, so anonymous visitors have already been
// turned away and an identity is present. A plain customer lands on the
// login page with their session left intact; they are simply not allowed
// in here.
func (s *Server) requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := identityFromContext(r.Context())
		if !id.Role.IsStaff() {
			s.addFlash(w, r, "You must be logged in as an employee or administrator to view that page.")
			http.Redirect(w, r, "/account/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
