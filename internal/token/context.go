package token

import "context"

type ctxKey struct{}

// WithRequestToken stashes the visitor's token on the context so the API
// client transport can attach it to outbound requests. Seeded once per
// request by the token middleware.
func WithRequestToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, ctxKey{}, tok)
}

// FromContext returns the token seeded by WithRequestToken, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	tok, _ := ctx.Value(ctxKey{}).(string)
	return tok
}
