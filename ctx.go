package catalog

import (
	"context"
)

var authorCtxKey = &contextKey{"author"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithAuthor sets the resolved Author in the given context
func WithAuthor(r context.Context, author *Author) context.Context {
	return context.WithValue(r, authorCtxKey, author)
}

// AuthorFromContext finds the author from the context.
func AuthorFromContext(ctx context.Context) (*Author, bool) {
	raw, ok := ctx.Value(authorCtxKey).(*Author)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}
