package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericFailureMessage is returned to callers when a failure response
// carries no usable error field.
const GenericFailureMessage = "something went wrong, please try again"

// APIError is a non-2xx response from the platform API. Message comes from
// the response body's "error" field when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the platform API.
// By the time a caller sees it, the central invalidation has already run;
// callers may show their own messaging but cannot undo the sign-out.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// UserMessage extracts a message safe to surface inline near a form.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericFailureMessage
}
