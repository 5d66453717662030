package finance

import (
	"context"
	"encoding/base64"
	"strings"

	"borsa/internal/core"
)

// BasicAuth holds session credentials: the username for display and the
// base64 username:password token sent as the Authorization header value.
type BasicAuth struct {
	Username string
	Token    string
}

// NewBasicAuth encodes username and password into a BasicAuth value.
func NewBasicAuth(username, password string) (BasicAuth, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return BasicAuth{}, core.ErrEmptyCredentials
	}
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return BasicAuth{Username: username, Token: token}, nil
}

// Header renders the full Authorization header value.
func (a BasicAuth) Header() string {
	return "Basic " + a.Token
}

// IsZero reports whether no credentials are present.
func (a BasicAuth) IsZero() bool {
	return a.Token == ""
}

type authContextKey struct{}

// WithAuth attaches session credentials to ctx; adapters read them per call,
// the way the browser client read sessionStorage on every fetch.
func WithAuth(ctx context.Context, auth BasicAuth) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthFromContext returns the credentials attached to ctx, if any.
func AuthFromContext(ctx context.Context) (BasicAuth, bool) {
	auth, ok := ctx.Value(authContextKey{}).(BasicAuth)
	if !ok || auth.IsZero() {
		return BasicAuth{}, false
	}
	return auth, true
}
