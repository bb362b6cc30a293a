package server

import (
	"context"
	"net/http"

	"github.com/hyperjump/marquee/internal/session"
)

type sessionKey struct{}

// withSession attaches the caller's session (or a new one) to the request and echoes
// its id in the response header.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Acquire(r.Header.Get(SessionHeader))
		w.Header().Set(SessionHeader, sess.ID)
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}
