package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/paydash/internal/app"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/ui"
)

// SessionCookie holds the id of the caller's dashboard session.
const SessionCookie = "paydash_session"

type requestIDKey struct{}

type sessionKey struct{}

// requestID reuses an incoming X-Request-ID or assigns a fresh uuid, and echoes it
// on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id assigned by the request id middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withSession attaches the caller's session, creating one and setting the cookie
// when the request carries no live session id.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
		sess, created := s.orchestrator.EnsureSession(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
			s.logger.Debug("session assigned",
				logging.Field{Key: "session_id", Value: sess.ID},
				logging.Field{Key: "request_id", Value: RequestIDFromContext(r.Context())})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *app.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*app.Session)
	return sess
}

// location resolves the zone filter inputs were typed in: the form's tz field,
// then the browser cookie, then the configured zone.
func (s *Server) location(r *http.Request) *time.Location {
	candidates := []string{r.FormValue("tz")}
	if c, err := r.Cookie(ui.TimezoneCookie); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil {
			candidates = append(candidates, v)
		}
	}
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return s.orchestrator.Config().Location()
}
