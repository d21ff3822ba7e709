package apiclient

import (
	"context"
	"sync"
	"sync/atomic"
)

// Invalidator enforces the forced sign-out on 401. One instance is bound to
// each inbound request; however many concurrent API calls observe a 401,
// the sign-out side effects (clear token store, broadcast to other tabs)
// run exactly once.
type Invalidator struct {
	once      sync.Once
	signedOut atomic.Bool
	onSignOut func()
}

// NewInvalidator wires the sign-out side effects. onSignOut may be nil.
func NewInvalidator(onSignOut func()) *Invalidator {
	return &Invalidator{onSignOut: onSignOut}
}

// Invalidate runs the sign-out side effects once. Idempotent.
func (i *Invalidator) Invalidate() {
	i.once.Do(func() {
		if i.onSignOut != nil {
			i.onSignOut()
		}
		i.signedOut.Store(true)
	})
}

// SignedOut reports whether a forced sign-out fired during this request.
// The response layer consults this to issue the navigation to sign-in.
func (i *Invalidator) SignedOut() bool {
	return i.signedOut.Load()
}

type invalidatorKey struct{}

// WithInvalidator stashes the request's invalidator for the transport.
func WithInvalidator(ctx context.Context, inv *Invalidator) context.Context {
	return context.WithValue(ctx, invalidatorKey{}, inv)
}

// InvalidatorFromContext returns the request's invalidator, or nil.
func InvalidatorFromContext(ctx context.Context) *Invalidator {
	if ctx == nil {
		return nil
	}
	inv, _ := ctx.Value(invalidatorKey{}).(*Invalidator)
	return inv
}
