package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/analytiq-hub/docrouter-tenants/internal/config"
	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/provision"
	"github.com/analytiq-hub/docrouter-tenants/internal/repository"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

// EnsureIndexes creates the organization collection indexes on boot.
func EnsureIndexes(lc fx.Lifecycle, repo *repository.MongoOrgRepo, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("bootstrap indexes: %w", err)
			}
			if logger != nil {
				logger.Info("organization indexes ensured")
			}
			return nil
		},
	})
}

// EnsureAdminOrg provisions the platform admin's default organization at
// boot so a fresh deployment always has a tenant. Skipped when no admin user
// is configured.
func EnsureAdminOrg(lc fx.Lifecycle, cfg config.Config, prov *provision.Provisioner, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.AdminUserID == "" {
				return nil
			}

			sess := session.AppSession{
				UserID: cfg.AdminUserID,
				Email:  cfg.AdminEmail,
				Role:   domain.UserRoleAdmin,
			}
			org, err := prov.EnsureDefault(ctx, sess)
			if err != nil {
				return fmt.Errorf("bootstrap admin organization: %w", err)
			}

			if logger != nil {
				logger.Info("bootstrap admin organization ensured",
					zap.String("org_id", org.ID),
					zap.String("user_id", cfg.AdminUserID),
				)
			}
			return nil
		},
	})
}
