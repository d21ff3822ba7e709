package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/session"
	"github.com/polarisml/console-gateway/internal/token"
)

func testAuth(t *testing.T) *Auth {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var creds apiclient.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid email or password"}`))
			return
		}
		w.Write([]byte(`{"token":"tok-ada","user":{"id":"u1","email":"ada@example.com","name":"Ada"}}`))
	})
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var input apiclient.SignUpInput
		json.NewDecoder(r.Body).Decode(&input)
		w.Write([]byte(`{"token":"tok-new","user":{"id":"u2","email":"` + input.Email + `","name":"` + input.Name + `"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := token.NewStore(nil, false)
	return &Auth{Sessions: session.NewManager(apiclient.New(srv.URL), store, nil)}
}

func postJSON(path, body string) (*http.Request, *httptest.ResponseRecorder) {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r, httptest.NewRecorder()
}

func TestSignInSuccess(t *testing.T) {
	auth := testAuth(t)

	r, w := postJSON("/api/auth/signin", `{"email":"ada@example.com","password":"correct"}`)
	auth.SignIn(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var result session.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.Equal(t, "/dashboard", result.Redirect)
	require.Equal(t, "Ada", result.User.Name)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, token.CookieName, cookies[0].Name)
	require.Equal(t, "tok-ada", cookies[0].Value)
}

func TestSignInBadCredentialsIsAValueNotAFailure(t *testing.T) {
	auth := testAuth(t)

	r, w := postJSON("/api/auth/signin", `{"email":"ada@example.com","password":"wrong"}`)
	auth.SignIn(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var result session.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.False(t, result.Success)
	require.Equal(t, "invalid email or password", result.Message)
	require.Empty(t, w.Result().Cookies())
}

func TestSignInRejectsBadBody(t *testing.T) {
	auth := testAuth(t)

	r, w := postJSON("/api/auth/signin", `{not json`)
	auth.SignIn(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)

	r, w = postJSON("/api/auth/signin", `{"email":"","password":""}`)
	auth.SignIn(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUpComposesName(t *testing.T) {
	auth := testAuth(t)

	r, w := postJSON("/api/auth/signup", `{"first_name":"Grace","last_name":"Hopper","email":"g@example.com","password":"pw"}`)
	auth.SignUp(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var result session.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.Equal(t, "Grace Hopper", result.User.Name)
	require.Equal(t, "/dashboard", result.Redirect)
}

func TestSignUpRequiresFields(t *testing.T) {
	auth := testAuth(t)

	r, w := postJSON("/api/auth/signup", `{"email":"g@example.com","password":"pw"}`)
	auth.SignUp(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignOutIsIdempotent(t *testing.T) {
	auth := testAuth(t)

	for i := 0; i < 2; i++ {
		r, w := postJSON("/api/auth/signout", ``)
		auth.SignOut(w, r)
		require.Equal(t, http.StatusOK, w.Code)

		var result session.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.True(t, result.Success)
		require.Equal(t, "/signin", result.Redirect)
	}
}

func TestSessionInfoAnonymous(t *testing.T) {
	auth := testAuth(t)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	w := httptest.NewRecorder()
	auth.SessionInfo(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user":null}`, w.Body.String())
}
