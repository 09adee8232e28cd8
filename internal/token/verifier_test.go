package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
	"github.com/analytiq-hub/docrouter-tenants/internal/token"
)

func TestParseOAuthToken(t *testing.T) {
	verifier := token.NewVerifier("test-secret-test-secret-test-secret")

	signed, err := verifier.Issue("u1", token.SessionClaims{
		Provider: "google",
		Email:    "alice@example.com",
		Name:     "Alice",
	}, time.Minute)
	require.NoError(t, err)

	raw, err := verifier.Parse(signed)
	require.NoError(t, err)

	oauth, ok := raw.(session.OAuthSession)
	require.True(t, ok)
	require.Equal(t, "u1", oauth.Subject)
	require.Equal(t, "alice@example.com", oauth.Email)
	require.Equal(t, "google", oauth.Provider)
}

func TestParseCredentialsToken(t *testing.T) {
	verifier := token.NewVerifier("test-secret-test-secret-test-secret")

	signed, err := verifier.Issue("u2", token.SessionClaims{
		Provider: "credentials",
		Email:    "bob@example.com",
		Role:     "admin",
	}, time.Minute)
	require.NoError(t, err)

	raw, err := verifier.Parse(signed)
	require.NoError(t, err)

	creds, ok := raw.(session.CredentialsSession)
	require.True(t, ok)
	require.Equal(t, "u2", creds.UserID)
	require.Equal(t, "admin", creds.Role)
}

func TestParseExpiredToken(t *testing.T) {
	verifier := token.NewVerifier("test-secret-test-secret-test-secret")

	signed, err := verifier.Issue("u1", token.SessionClaims{Provider: "google"}, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	require.Error(t, err)
	require.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestParseGarbageToken(t *testing.T) {
	verifier := token.NewVerifier("test-secret-test-secret-test-secret")

	_, err := verifier.Parse("not-a-jwt")
	require.Error(t, err)
	require.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestParseWrongSecret(t *testing.T) {
	minter := token.NewVerifier("secret-a-secret-a-secret-a-secret-a")
	verifier := token.NewVerifier("secret-b-secret-b-secret-b-secret-b")

	signed, err := minter.Issue("u1", token.SessionClaims{Provider: "google"}, time.Minute)
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	require.Error(t, err)
	require.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}
