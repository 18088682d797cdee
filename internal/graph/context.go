package graph

import (
	"context"

	"github.com/gin-contrib/sessions"
)

// RequestContext is the per-request state resolvers see: who is asking and
// the session to write login state into.
type RequestContext struct {
	UserID  *uint
	Session sessions.Session
}

type ctxKey struct{}

func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// requestFrom never returns nil; a bare context reads as anonymous.
func requestFrom(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(ctxKey{}).(*RequestContext); ok && rc != nil {
		return rc
	}
	return &RequestContext{}
}

// sessionExpired drops the cookie on logout.
var sessionExpired = sessions.Options{Path: "/", MaxAge: -1}
