// Package guard provides the rendering-layer gates around session state.
// Both guards consult the session manager only; neither touches storage or
// the network directly.
package guard

import (
	"net/http"

	"github.com/polarisml/console-gateway/internal/routeclass"
	"github.com/polarisml/console-gateway/internal/session"
)

// Protected blocks content until a session is confirmed present. Anonymous
// visitors get an empty response, not a redirect: the edge gate already
// redirected page navigations, so this is the defense-in-depth fallback
// for paths reached without passing through it.
func Protected(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := mgr.Resolve(w, r)
			if sess.Loading {
				// Resolution was interrupted (client went away); render a
				// neutral placeholder and nothing else.
				w.WriteHeader(http.StatusAccepted)
				return
			}
			if !sess.Authenticated() {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			r = r.WithContext(session.WithUser(r.Context(), sess.User))
			next.ServeHTTP(w, r)
		})
	}
}

// GuestOnly blocks auth pages for signed-in visitors: exactly one redirect
// to the home route, no guarded content. Anonymous visitors see the page.
func GuestOnly(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := mgr.Resolve(w, r)
			if sess.Loading || sess.Authenticated() {
				http.Redirect(w, r, routeclass.HomeRoute, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
