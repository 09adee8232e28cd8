package directory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/analytiq-hub/docrouter-tenants/internal/directory"
	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

func newTestService(t *testing.T) (*directory.Service, *memoryOrgRepo) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := newMemoryOrgRepo()
	return directory.NewService(repo, node, zap.NewNop()), repo
}

func TestCreateOrganization(t *testing.T) {
	svc, repo := newTestService(t)
	creator := session.AppSession{UserID: "u1", Email: "alice@example.com"}

	org, err := svc.Create(context.Background(), directory.CreateInput{Name: "Acme", Slug: "Acme "}, creator)
	require.NoError(t, err)
	require.NotEmpty(t, org.ID)
	require.Equal(t, "Acme", org.Name)
	require.Equal(t, "acme", org.Slug)
	require.Equal(t, domain.OrgTypeTeam, org.Type)
	require.Len(t, org.Members, 1)
	require.Equal(t, "u1", org.Members[0].UserID)
	require.Equal(t, domain.MemberRoleAdmin, org.Members[0].Role)
	require.Len(t, repo.all(), 1)
}

func TestCreateOrganizationRequiresName(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Create(context.Background(), directory.CreateInput{Name: "   "}, session.AppSession{UserID: "u1"})
	require.Error(t, err)
	require.Equal(t, domain.KindValidation, domain.KindOf(err))
	require.Empty(t, repo.all())
}

func TestCreateOrganizationSlugConflict(t *testing.T) {
	svc, repo := newTestService(t)
	creator := session.AppSession{UserID: "u1"}

	_, err := svc.Create(context.Background(), directory.CreateInput{Name: "Acme", Slug: "acme"}, creator)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), directory.CreateInput{Name: "Acme2", Slug: "acme"}, creator)
	require.Error(t, err)
	require.Equal(t, domain.KindConflict, domain.KindOf(err))
	require.Len(t, repo.all(), 1)
}

func TestListForUserContainment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, directory.CreateInput{Name: "Mine"}, session.AppSession{UserID: "u1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, directory.CreateInput{Name: "Theirs"}, session.AppSession{UserID: "u2"})
	require.NoError(t, err)

	orgs, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	require.Equal(t, "Mine", orgs[0].Name)

	orgs, err = svc.ListForUser(ctx, "u3")
	require.NoError(t, err)
	require.Empty(t, orgs)
}

func TestGetOrganizationNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing", session.AppSession{UserID: "u1"})
	require.Error(t, err)
	require.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestGetOrganizationBySlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	org, err := svc.Create(ctx, directory.CreateInput{Name: "Acme", Slug: "acme"}, session.AppSession{UserID: "u1"})
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, "acme", session.AppSession{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, org.ID, fetched.ID)

	// Slug lookup is case-insensitive; slugs are stored lowercased.
	fetched, err = svc.Get(ctx, "ACME", session.AppSession{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, org.ID, fetched.ID)
}

func TestGetOrganizationNonMember(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	org, err := svc.Create(ctx, directory.CreateInput{Name: "Acme"}, session.AppSession{UserID: "u1"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, org.ID, session.AppSession{UserID: "u2", Role: domain.UserRoleUser})
	require.Error(t, err)
	require.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestGetOrganizationPlatformAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	org, err := svc.Create(ctx, directory.CreateInput{Name: "Acme"}, session.AppSession{UserID: "u1"})
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, org.ID, session.AppSession{UserID: "ops", Role: domain.UserRoleAdmin})
	require.NoError(t, err)
	require.Equal(t, org.ID, fetched.ID)
}

// memoryOrgRepo is an in-memory OrgRepository for tests.
type memoryOrgRepo struct {
	mu   sync.Mutex
	orgs map[string]domain.Organization
}

func newMemoryOrgRepo() *memoryOrgRepo {
	return &memoryOrgRepo{orgs: make(map[string]domain.Organization)}
}

func (m *memoryOrgRepo) Insert(ctx context.Context, org domain.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orgs[org.ID]; exists {
		return domain.E(domain.KindConflict, "duplicate organization id")
	}
	if org.Slug != "" {
		for _, existing := range m.orgs {
			if existing.Slug == org.Slug {
				return domain.E(domain.KindConflict, "duplicate slug")
			}
		}
	}
	m.orgs[org.ID] = org
	return nil
}

func (m *memoryOrgRepo) Get(ctx context.Context, id string) (domain.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return domain.Organization{}, domain.E(domain.KindNotFound, "organization not found")
	}
	return org, nil
}

func (m *memoryOrgRepo) GetBySlug(ctx context.Context, slug string) (domain.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, org := range m.orgs {
		if org.Slug == slug {
			return org, nil
		}
	}
	return domain.Organization{}, domain.E(domain.KindNotFound, "organization not found")
}

func (m *memoryOrgRepo) ListByMember(ctx context.Context, userID string) ([]domain.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Organization
	for _, org := range m.orgs {
		if org.HasMember(userID) {
			result = append(result, org)
		}
	}
	return result, nil
}

func (m *memoryOrgRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, org := range m.orgs {
		if org.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryOrgRepo) all() []domain.Organization {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Organization, 0, len(m.orgs))
	for _, org := range m.orgs {
		result = append(result, org)
	}
	return result
}
