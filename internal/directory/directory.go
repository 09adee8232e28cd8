package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/repository"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

// CreateInput carries a user-initiated organization creation request.
type CreateInput struct {
	Name string
	Slug string
}

// Service answers membership queries and creates organizations.
type Service struct {
	orgs      repository.OrgRepository
	snowflake *snowflake.Node
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewService wires dependencies.
func NewService(orgs repository.OrgRepository, node *snowflake.Node, logger *zap.Logger) *Service {
	return &Service{
		orgs:      orgs,
		snowflake: node,
		logger:    logger,
		tracer:    otel.Tracer("github.com/analytiq-hub/docrouter-tenants/internal/directory"),
	}
}

// ListForUser returns every organization the user is a member of, in no
// particular order. Read-only.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	ctx, span := s.startSpan(ctx, "Directory.ListForUser")
	defer span.End()

	orgs, err := s.orgs.ListByMember(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list organizations for user: %w", err)
	}
	return orgs, nil
}

// Create persists a new organization with the creator as its sole admin.
// The slug, when supplied, must be globally unique.
func (s *Service) Create(ctx context.Context, input CreateInput, creator session.AppSession) (domain.Organization, error) {
	ctx, span := s.startSpan(ctx, "Directory.Create")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Organization{}, domain.E(domain.KindValidation, "organization name is required")
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug != "" {
		exists, err := s.orgs.SlugExists(ctx, slug)
		if err != nil {
			span.RecordError(err)
			return domain.Organization{}, fmt.Errorf("check slug: %w", err)
		}
		if exists {
			return domain.Organization{}, domain.E(domain.KindConflict, "slug already in use")
		}
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        s.snowflake.Generate().String(),
		Name:      name,
		Type:      domain.OrgTypeTeam,
		Slug:      slug,
		Members:   []domain.Member{{UserID: creator.UserID, Role: domain.MemberRoleAdmin}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique slug index backstops the SlugExists check against
	// concurrent creations with the same slug.
	if err := s.orgs.Insert(ctx, org); err != nil {
		span.RecordError(err)
		if domain.KindOf(err) == domain.KindConflict {
			return domain.Organization{}, domain.E(domain.KindConflict, "slug already in use")
		}
		return domain.Organization{}, fmt.Errorf("create organization: %w", err)
	}

	s.audit("organization.created", "org_id", org.ID, "user_id", creator.UserID, "slug", slug)
	return org, nil
}

// Get loads one organization by id, falling back to slug lookup so routes
// accept either form. Non-members are rejected unless the caller holds the
// platform admin role.
func (s *Service) Get(ctx context.Context, idOrSlug string, caller session.AppSession) (domain.Organization, error) {
	ctx, span := s.startSpan(ctx, "Directory.Get")
	defer span.End()

	org, err := s.orgs.Get(ctx, idOrSlug)
	if err != nil && domain.KindOf(err) == domain.KindNotFound {
		org, err = s.orgs.GetBySlug(ctx, strings.ToLower(idOrSlug))
	}
	if err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			span.RecordError(err)
		}
		return domain.Organization{}, err
	}

	if !org.HasMember(caller.UserID) && caller.Role != domain.UserRoleAdmin {
		return domain.Organization{}, domain.E(domain.KindUnauthorized, "not a member of organization")
	}
	return org, nil
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *Service) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *Service) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
