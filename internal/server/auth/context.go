package auth

import "context"

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal кладет Principal в контекст запроса
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext достает Principal из контекста запроса
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}
