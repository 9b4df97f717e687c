package subscription

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
)

type tokenCtxKey struct{}

// WithToken attaches the end user's access token to ctx so billing API
// reads are made on their behalf.
func WithToken(ctx context.Context, accessToken string) context.Context {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenCtxKey{}, &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

// TokenFromContext returns the token set by WithToken.
func TokenFromContext(ctx context.Context) (*oauth2.Token, bool) {
	tok, ok := ctx.Value(tokenCtxKey{}).(*oauth2.Token)
	return tok, ok && tok != nil
}

// TokenFromAuthorization extracts the bearer token from an Authorization header value.
func TokenFromAuthorization(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
