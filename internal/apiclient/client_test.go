package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polarisml/console-gateway/internal/token"
)

func TestProfileAttachesBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","email":"a@b.c","name":"Ada"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	ctx := token.WithRequestToken(context.Background(), "tok-xyz")

	user, err := client.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-xyz", gotAuth)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "Ada", user.Name)
}

func TestNoTokenMeansNoAuthorizationHeader(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{"id":"u1"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Profile(context.Background())
	require.NoError(t, err)
	require.False(t, sawHeader)
}

func TestFailureMessageFromErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"email already registered"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).SignUp(context.Background(), SignUpInput{Name: "Ada", Email: "a@b.c", Password: "pw"})
	require.Error(t, err)
	require.Equal(t, "email already registered", UserMessage(err))
	require.False(t, IsUnauthorized(err))
}

func TestFailureWithoutBodyGetsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).SignIn(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	require.Equal(t, GenericFailureMessage, UserMessage(err))
}

func TestUnauthorizedTriggersInvalidationOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	var signOuts atomic.Int32
	inv := NewInvalidator(func() { signOuts.Add(1) })

	ctx := token.WithRequestToken(context.Background(), "stale-tok")
	ctx = WithInvalidator(ctx, inv)

	client := New(srv.URL)

	// Many concurrent calls all observe the 401; the sign-out runs once.
	var unauthorized atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Profile(ctx); IsUnauthorized(err) {
				unauthorized.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(8), unauthorized.Load())

	require.Equal(t, int32(1), signOuts.Load())
	require.True(t, inv.SignedOut())

	// Explicit re-invalidation is still a no-op.
	inv.Invalidate()
	require.Equal(t, int32(1), signOuts.Load())
}

func TestPassthroughForwardsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/datasets", r.URL.Path)
		require.Equal(t, "limit=5", r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"id":"d1"}]`))
	}))
	defer srv.Close()

	status, payload, err := New(srv.URL).Passthrough(context.Background(), http.MethodGet, "/datasets?limit=5", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[{"id":"d1"}]`, string(payload))
}

func TestPassthroughUnauthorizedSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, _, err := New(srv.URL).Passthrough(context.Background(), http.MethodGet, "/projects", nil)
	require.Error(t, err)
	require.True(t, IsUnauthorized(err))
}
