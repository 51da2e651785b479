package web

import (
	"net/http"

	"github.com/JonMunkholm/PropCompare/internal/logging"
)

// sessionHeader lets API clients without a cookie jar carry their session.
const sessionHeader = "X-Session-ID"

// sessionMiddleware resolves the caller's session from the cookie or the
// X-Session-ID header, creating one when neither names a live session, and
// bootstraps it before the handler runs. A failed bootstrap is reported and
// retried on the next request.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionHeader)
		if id == "" {
			if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
				id = c.Value
			}
		}

		sess, ok := s.sessions.Get(id)
		if !ok {
			sess = s.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     s.cfg.Session.CookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(s.cfg.Session.TTL.Seconds()),
				HttpOnly: true,
				Secure:   s.cfg.Session.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(sessionHeader, sess.ID)

		ctx := WithRequestMetadata(r.Context(), r)
		logger := logging.FromContext(ctx).With("session_id", sess.ID)
		ctx = logging.WithLogger(ctx, logger)
		ctx = withSession(ctx, sess)
		r = r.WithContext(ctx)

		if err := sess.Bootstrap(ctx); err != nil {
			s.respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
