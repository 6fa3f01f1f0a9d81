package auth

import "context"

type principalKey struct{}

// Principal identifies the authenticated admin acting on a request.
type Principal struct {
	AdminID string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
