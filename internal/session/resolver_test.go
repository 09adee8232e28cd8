package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

func TestResolveNilSession(t *testing.T) {
	require.Nil(t, session.Resolve(nil))
}

func TestResolveOAuthSession(t *testing.T) {
	resolved := session.Resolve(session.OAuthSession{
		Subject:  "u1",
		Email:    "Alice@Example.com",
		Name:     "Alice",
		Provider: "github",
	})
	require.NotNil(t, resolved)
	require.Equal(t, "u1", resolved.UserID)
	require.Equal(t, "alice@example.com", resolved.Email)
	require.Equal(t, "Alice", resolved.Name)
	// OAuth providers never carry a platform role.
	require.Equal(t, domain.UserRoleUser, resolved.Role)
}

func TestResolveOAuthSessionWithoutSubject(t *testing.T) {
	resolved := session.Resolve(session.OAuthSession{Email: "alice@example.com"})
	require.Nil(t, resolved)
}

func TestResolveCredentialsSession(t *testing.T) {
	resolved := session.Resolve(session.CredentialsSession{
		UserID: "u2",
		Email:  "bob@example.com",
		Role:   "admin",
	})
	require.NotNil(t, resolved)
	require.Equal(t, "u2", resolved.UserID)
	require.Equal(t, domain.UserRoleAdmin, resolved.Role)
}

func TestResolveCredentialsSessionUnknownRole(t *testing.T) {
	resolved := session.Resolve(session.CredentialsSession{UserID: "u3", Role: "superuser"})
	require.NotNil(t, resolved)
	require.Equal(t, domain.UserRoleUser, resolved.Role)
}

func TestResolveNilPointerSession(t *testing.T) {
	var raw *session.OAuthSession
	require.Nil(t, session.Resolve(raw))
}
