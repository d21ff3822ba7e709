package session

import (
	"context"

	"github.com/polarisml/console-gateway/internal/models"
)

// Session is the resolved auth state of one visitor. Once resolved,
// Loading is false and User is authoritative: a validated profile, or nil
// for anonymous. There is no transition back to loading within an entry's
// lifetime.
type Session struct {
	User    *models.User
	Loading bool
}

// Authenticated reports whether the session resolved to a signed-in user.
func (s *Session) Authenticated() bool {
	return s != nil && !s.Loading && s.User != nil
}

// Result is the value-shaped outcome of login/register/logout. Failures are
// returned, never thrown: the form layer always gets a resolved result.
type Result struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message,omitempty"`
	User     *models.User `json:"user,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

type userKey struct{}

// WithUser stores the resolved user for downstream handlers.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user injected by the protected guard, or nil.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}
