package middleware

import (
	"net/http"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/token"
)

// TokenContext seeds every request with the visitor's token and a bound
// invalidator. The API client transport reads both; when any upstream call
// returns 401, the invalidator clears the cookie and drops the session
// entry exactly once, no matter how many calls observe the 401.
func TokenContext(store *token.Store, invalidate func(fingerprint string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := store.Get(r)

			inv := apiclient.NewInvalidator(func() {
				store.Clear(w)
				if invalidate != nil {
					invalidate(token.Fingerprint(tok))
				}
			})

			ctx := token.WithRequestToken(r.Context(), tok)
			ctx = apiclient.WithInvalidator(ctx, inv)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
