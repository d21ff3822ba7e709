package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/polarisml/console-gateway/internal/models"
)

const requestTimeout = 15 * time.Second

// Client is the one HTTP client for the platform API. Every call in the
// gateway funnels through it, so the bearer header and the 401 policy are
// applied uniformly.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the given base URL (host or same-origin prefix).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: &authTransport{base: http.DefaultTransport},
		},
	}
}

// Credentials is the sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpInput is the sign-up request body. Name is composed by the caller
// (e.g. from first/last name form fields) before reaching the client.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the success payload of sign-in and sign-up.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SignIn exchanges credentials for a token and profile.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/signin", Credentials{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/signup", input, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile fetches the current user. The token comes from the request
// context; an invalid token yields a 401 and the central invalidation.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do performs one JSON round trip. Non-2xx responses become *APIError with
// the body's "error" field when present.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFrom(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiErrorFrom reads the optional {"error": "..."} body of a failure.
func apiErrorFrom(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Message = strings.TrimSpace(body.Error)
	}
	if apiErr.Message == "" {
		apiErr.Message = GenericFailureMessage
	}
	return apiErr
}
