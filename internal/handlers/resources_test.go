package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/token"
)

func testResources(t *testing.T, backend http.HandlerFunc) *Resources {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return &Resources{Client: apiclient.New(srv.URL)}
}

func TestProxyForwardsPathQueryAndBody(t *testing.T) {
	res := testResources(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/datasets/d1", r.URL.Path)
		require.Equal(t, "page=2", r.URL.RawQuery)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"d1","name":"training-set"}`))
	})

	r := httptest.NewRequest(http.MethodGet, "/api/datasets/d1?page=2", nil)
	r = r.WithContext(token.WithRequestToken(r.Context(), "tok-1"))
	w := httptest.NewRecorder()
	res.Proxy(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":"d1","name":"training-set"}`, w.Body.String())
}

func TestProxyExpiredSessionCarriesRedirectHint(t *testing.T) {
	res := testResources(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	r = r.WithContext(token.WithRequestToken(r.Context(), "tok-stale"))
	w := httptest.NewRecorder()
	res.Proxy(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"session expired","redirect":"/signin?reason=expired"}`, w.Body.String())
}

func TestProxyPassesBackendErrorsThrough(t *testing.T) {
	res := testResources(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"dataset not found"}`))
	})

	r := httptest.NewRequest(http.MethodGet, "/api/datasets/nope", nil)
	w := httptest.NewRecorder()
	res.Proxy(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"dataset not found"}`, w.Body.String())
}
