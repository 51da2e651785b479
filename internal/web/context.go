package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

type ctxKey int

const sessionKey ctxKey = iota

// WithRequestMetadata adds the client IP and User-Agent to ctx for activity
// logging. RemoteAddr has already been resolved by TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, r.RemoteAddr)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

func withSession(ctx context.Context, sess *core.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// sessionFrom returns the session attached by sessionMiddleware.
func sessionFrom(ctx context.Context) *core.Session {
	sess, _ := ctx.Value(sessionKey).(*core.Session)
	return sess
}
