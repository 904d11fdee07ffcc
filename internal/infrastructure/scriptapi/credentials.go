package scriptapi

import "golang.org/x/oauth2"

// TokenSource wraps a caller's bearer token in the shape the Google API
// client expects. The token is never refreshed; it lives for one request.
func TokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
