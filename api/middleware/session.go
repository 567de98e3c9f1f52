package middleware

import (
	"net/http"

	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

// ForwardSession makes the caller's cookies available to record store requests.
// With a cookie name only that cookie is forwarded; otherwise every cookie is.
func ForwardSession(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookies []*http.Cookie
			if cookieName != "" {
				if c, err := r.Cookie(cookieName); err == nil {
					cookies = []*http.Cookie{c}
				}
			} else {
				cookies = r.Cookies()
			}
			if len(cookies) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(recordstore.WithSession(r.Context(), cookies)))
		})
	}
}
