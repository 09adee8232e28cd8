package token

import (
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

const providerCredentials = "credentials"

// SessionClaims is the custom JWT payload minted by the auth frontend.
type SessionClaims struct {
	Provider string `json:"provider"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Verifier parses and validates HMAC-signed session tokens into raw provider
// sessions for the resolver.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a verifier around the shared session secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Parse validates the token signature and expiry and maps the claims onto
// the provider-specific session shape. Every failure is classified as
// Unauthenticated; callers never see parse internals.
func (v *Verifier) Parse(token string) (session.ProviderSession, error) {
	parsed, err := gojwt.ParseSigned(token, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return nil, domain.WrapE(domain.KindUnauthenticated, "parse session token", err)
	}

	var std gojwt.Claims
	var custom SessionClaims
	if err := parsed.Claims(v.secret, &std, &custom); err != nil {
		return nil, domain.WrapE(domain.KindUnauthenticated, "verify session token", err)
	}
	if err := std.Validate(gojwt.Expected{Time: time.Now().UTC()}); err != nil {
		return nil, domain.WrapE(domain.KindUnauthenticated, "validate session claims", err)
	}

	if custom.Provider == providerCredentials {
		return session.CredentialsSession{
			UserID: std.Subject,
			Email:  custom.Email,
			Name:   custom.Name,
			Role:   custom.Role,
		}, nil
	}
	return session.OAuthSession{
		Subject:  std.Subject,
		Email:    custom.Email,
		Name:     custom.Name,
		Picture:  custom.Picture,
		Provider: custom.Provider,
	}, nil
}

// Issue signs a session token for the subject. Used by the dev tooling and
// tests; production tokens are minted by the auth frontend with the same
// secret.
func (v *Verifier) Issue(subject string, claims SessionClaims, ttl time.Duration) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: v.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := time.Now().UTC()
	std := gojwt.Claims{
		Subject:   subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		Expiry:    gojwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := gojwt.Signed(signer).Claims(std).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize session token: %w", err)
	}
	return token, nil
}
