package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/routeclass"
)

const maxProxyBody = 8 << 20

// Resources proxies the console's dataset/project/prediction calls to the
// platform API. The bearer header and the 401 policy come from the shared
// client; nothing here re-implements sign-out.
type Resources struct {
	Client *apiclient.Client
}

// Proxy forwards /api/{datasets,projects,predictions}... verbatim.
func (h *Resources) Proxy(w http.ResponseWriter, r *http.Request) {
	apiPath := strings.TrimPrefix(r.URL.Path, "/api")
	if r.URL.RawQuery != "" {
		apiPath += "?" + r.URL.RawQuery
	}

	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxProxyBody))
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	status, payload, err := h.Client.Passthrough(r.Context(), r.Method, apiPath, body)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func (h *Resources) respondError(w http.ResponseWriter, err error) {
	// The transport already cleared the token on 401; the shell gets the
	// navigation target the forced sign-out demands.
	if apiclient.IsUnauthorized(err) {
		respondJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    "session expired",
			"redirect": routeclass.SignInRoute + "?reason=expired",
		})
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		respondJSON(w, apiErr.StatusCode, map[string]string{"error": apiErr.Message})
		return
	}
	respondJSON(w, http.StatusBadGateway, map[string]string{"error": apiclient.GenericFailureMessage})
}
