package session

import (
	"strings"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
)

// Resolve normalizes a raw provider session into an AppSession. A nil raw
// session, or one without a user id, resolves to nil: callers treat that as
// unauthenticated, never as an error. The transform is pure and safe to call
// from any execution context.
func Resolve(raw ProviderSession) *AppSession {
	if raw == nil {
		return nil
	}

	var resolved AppSession
	switch s := raw.(type) {
	case OAuthSession:
		resolved = AppSession{
			UserID: strings.TrimSpace(s.Subject),
			Email:  strings.ToLower(strings.TrimSpace(s.Email)),
			Name:   strings.TrimSpace(s.Name),
			Role:   domain.UserRoleUser,
		}
	case *OAuthSession:
		if s == nil {
			return nil
		}
		return Resolve(*s)
	case CredentialsSession:
		resolved = AppSession{
			UserID: strings.TrimSpace(s.UserID),
			Email:  strings.ToLower(strings.TrimSpace(s.Email)),
			Name:   strings.TrimSpace(s.Name),
			Role:   normalizeRole(s.Role),
		}
	case *CredentialsSession:
		if s == nil {
			return nil
		}
		return Resolve(*s)
	default:
		return nil
	}

	if resolved.UserID == "" {
		return nil
	}
	return &resolved
}

func normalizeRole(raw string) domain.UserRole {
	if strings.EqualFold(strings.TrimSpace(raw), string(domain.UserRoleAdmin)) {
		return domain.UserRoleAdmin
	}
	return domain.UserRoleUser
}
