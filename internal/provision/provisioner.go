package provision

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/repository"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

// DefaultOrgID derives the personal organization id from the owning user id.
// The id is deterministic on purpose: two concurrent first-login requests
// build the same document id, so the second insert fails on the primary key
// instead of creating a duplicate. Never replace this with a generated id.
func DefaultOrgID(userID string) string {
	return userID
}

// Provisioner lazily creates the personal organization for users that have
// none yet.
type Provisioner struct {
	orgs   repository.OrgRepository
	logger *zap.Logger
	tracer trace.Tracer
}

// NewProvisioner wires dependencies.
func NewProvisioner(orgs repository.OrgRepository, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		orgs:   orgs,
		logger: logger,
		tracer: otel.Tracer("github.com/analytiq-hub/docrouter-tenants/internal/provision"),
	}
}

// EnsureDefault creates the user's default organization if it does not exist
// and returns it. Losing the insert race to a concurrent request is treated
// as success: the winner's document is fetched and returned. Any other
// persistence failure propagates.
func (p *Provisioner) EnsureDefault(ctx context.Context, sess session.AppSession) (domain.Organization, error) {
	ctx, span := p.startSpan(ctx, "Provisioner.EnsureDefault")
	defer span.End()

	if sess.UserID == "" {
		return domain.Organization{}, domain.E(domain.KindValidation, "session user id is required")
	}

	name := sess.Email
	if name == "" {
		name = sess.UserID
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        DefaultOrgID(sess.UserID),
		Name:      name,
		Type:      domain.OrgTypeIndividual,
		Members:   []domain.Member{{UserID: sess.UserID, Role: domain.MemberRoleAdmin}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := p.orgs.Insert(ctx, org)
	if err == nil {
		p.log().Info("default organization provisioned",
			zap.String("org_id", org.ID),
			zap.String("user_id", sess.UserID),
		)
		return org, nil
	}

	if domain.KindOf(err) == domain.KindConflict {
		// A concurrent request won the insert race; its document is ours.
		existing, fetchErr := p.orgs.Get(ctx, org.ID)
		if fetchErr != nil {
			span.RecordError(fetchErr)
			return domain.Organization{}, fmt.Errorf("fetch default organization after conflict: %w", fetchErr)
		}
		return existing, nil
	}

	span.RecordError(err)
	return domain.Organization{}, fmt.Errorf("provision default organization: %w", err)
}

func (p *Provisioner) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if p == nil || p.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, name)
}

func (p *Provisioner) log() *zap.Logger {
	if p != nil && p.logger != nil {
		return p.logger
	}
	return zap.L()
}
