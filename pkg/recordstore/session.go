package recordstore

import (
	"context"
	"net/http"
)

type sessionKey struct{}

// WithSession attaches the caller's session cookies so requests made with ctx
// authenticate as that caller.
func WithSession(ctx context.Context, cookies []*http.Cookie) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(cookies) == 0 {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, cookies)
}

func sessionFromContext(ctx context.Context) []*http.Cookie {
	if ctx == nil {
		return nil
	}
	cookies, _ := ctx.Value(sessionKey{}).([]*http.Cookie)
	return cookies
}
