package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/session"
	"github.com/polarisml/console-gateway/internal/token"
)

func testManager(t *testing.T) *session.Manager {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"u1","email":"ada@example.com","name":"Ada"}`))
	}))
	t.Cleanup(srv.Close)
	return session.NewManager(apiclient.New(srv.URL), token.NewStore(nil, false), nil)
}

func request(tok string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if tok != "" {
		r.AddCookie(&http.Cookie{Name: token.CookieName, Value: tok})
	}
	return r
}

func TestProtectedAnonymousRendersNothing(t *testing.T) {
	var called bool
	h := Protected(testManager(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(""))

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, w.Body.String())
	require.Empty(t, w.Header().Get("Location"))
}

func TestProtectedAuthenticatedInjectsUser(t *testing.T) {
	h := Protected(testManager(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := session.UserFromContext(r.Context())
		require.NotNil(t, u)
		require.Equal(t, "Ada", u.Name)
		w.Write([]byte("console"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("tok-good"))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "console", w.Body.String())
}

func TestProtectedBadTokenRendersNothing(t *testing.T) {
	var called bool
	h := Protected(testManager(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("tok-revoked"))

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestOnlyRedirectsAuthenticated(t *testing.T) {
	var called bool
	h := GuestOnly(testManager(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("tok-good"))

	require.False(t, called)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestGuestOnlyRendersForAnonymous(t *testing.T) {
	h := GuestOnly(testManager(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("sign in"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(""))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "sign in", w.Body.String())
}
