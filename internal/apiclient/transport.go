package apiclient

import (
	"net/http"

	"github.com/polarisml/console-gateway/internal/token"
)

// authTransport attaches the visitor's bearer token to every outgoing
// request and intercepts 401 responses. This is the single place session
// invalidation is enforced; no handler duplicates it.
type authTransport struct {
	base http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if tok := token.FromContext(req.Context()); tok != "" {
		out.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if inv := InvalidatorFromContext(req.Context()); inv != nil {
			inv.Invalidate()
		}
	}

	// The response is returned as-is so the caller still sees the 401.
	return resp, nil
}
