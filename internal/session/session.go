package session

import "github.com/analytiq-hub/docrouter-tenants/internal/domain"

// AppSession is the normalized application session every route works with.
// It is the only session shape that crosses the resolver boundary.
type AppSession struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Role   domain.UserRole `json:"role"`
}

// ProviderSession is the raw session shape handed over by the auth provider.
// Field availability varies per provider; the resolver normalizes the
// differences away.
type ProviderSession interface {
	providerSession()
}

// OAuthSession is the shape produced by OAuth providers. The role is usually
// absent; email and name depend on the scopes the user consented to.
type OAuthSession struct {
	Subject  string
	Email    string
	Name     string
	Picture  string
	Provider string
}

func (OAuthSession) providerSession() {}

// CredentialsSession is the shape produced by the first-party credentials
// provider, which knows the platform role.
type CredentialsSession struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (CredentialsSession) providerSession() {}
