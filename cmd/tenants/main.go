package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/analytiq-hub/docrouter-tenants/internal/adapter/cache"
	"github.com/analytiq-hub/docrouter-tenants/internal/bootstrap"
	"github.com/analytiq-hub/docrouter-tenants/internal/config"
	"github.com/analytiq-hub/docrouter-tenants/internal/directory"
	httptransport "github.com/analytiq-hub/docrouter-tenants/internal/http"
	"github.com/analytiq-hub/docrouter-tenants/internal/http/handler"
	httpmiddleware "github.com/analytiq-hub/docrouter-tenants/internal/http/middleware"
	apimiddleware "github.com/analytiq-hub/docrouter-tenants/internal/middleware"
	"github.com/analytiq-hub/docrouter-tenants/internal/provision"
	"github.com/analytiq-hub/docrouter-tenants/internal/repository"
	"github.com/analytiq-hub/docrouter-tenants/internal/server"
	"github.com/analytiq-hub/docrouter-tenants/internal/telemetry"
	"github.com/analytiq-hub/docrouter-tenants/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newMongoClient,
			newMongoDatabase,
			newMongoOrgRepo,
			newOrgRepository,
			newRedisClient,
			newSessionCache,
			newVerifier,
			directory.NewService,
			provision.NewProvisioner,
			newRateLimiter,
			newAuthMiddleware,
			handler.NewTenantHandler,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureIndexes, bootstrap.EnsureAdminOrg, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newMongoClient(lc fx.Lifecycle, cfg config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

func newMongoDatabase(client *mongo.Client, cfg config.Config) *mongo.Database {
	return client.Database(cfg.MongoDatabase)
}

func newMongoOrgRepo(db *mongo.Database) *repository.MongoOrgRepo {
	return repository.NewMongoOrgRepo(db)
}

func newOrgRepository(repo *repository.MongoOrgRepo) repository.OrgRepository {
	return repo
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newSessionCache(client redis.UniversalClient) repository.SessionCache {
	if client == nil {
		return nil
	}
	return cacheadapter.NewRedisSessionCache(client)
}

func newVerifier(cfg config.Config) *token.Verifier {
	return token.NewVerifier(cfg.SessionSecret)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newAuthMiddleware(verifier *token.Verifier, cache repository.SessionCache, cfg config.Config) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{Verifier: verifier, Cache: cache, CacheTTL: cfg.SessionCacheTTL}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
