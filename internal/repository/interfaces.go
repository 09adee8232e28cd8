package repository

import (
	"context"
	"time"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

// OrgRepository exposes persistence for organizations.
type OrgRepository interface {
	// Insert persists a new organization. A duplicate id or slug surfaces
	// as a KindConflict error.
	Insert(ctx context.Context, org domain.Organization) error
	Get(ctx context.Context, id string) (domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (domain.Organization, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// SessionCache stores resolved sessions keyed by token digest so hot paths
// skip signature verification.
type SessionCache interface {
	Save(ctx context.Context, key string, sess session.AppSession, ttl time.Duration) error
	Get(ctx context.Context, key string) (*session.AppSession, error)
	Delete(ctx context.Context, key string) error
}
