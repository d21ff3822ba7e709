package middleware

import (
	"net/http"
	"strings"

	"github.com/polarisml/console-gateway/internal/routeclass"
	"github.com/polarisml/console-gateway/internal/token"
)

// EdgeGate runs before any handler and redirects on token *presence* only.
// Protected path without a token goes to sign-in; auth-only path with a
// token goes to the dashboard. Validity is not checked here: an expired
// token passes the gate and is caught by the first API 401.
func EdgeGate(store *token.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := store.Get(r)

			switch routeclass.Classify(r.URL.Path) {
			case routeclass.Protected:
				if tok == "" {
					// API calls get a status, page navigations a redirect.
					if strings.HasPrefix(r.URL.Path, "/api/") {
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusUnauthorized)
						w.Write([]byte(`{"error":"authentication required"}`))
						return
					}
					http.Redirect(w, r, routeclass.SignInRoute, http.StatusSeeOther)
					return
				}
			case routeclass.AuthOnly:
				if tok != "" {
					http.Redirect(w, r, routeclass.HomeRoute, http.StatusSeeOther)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
