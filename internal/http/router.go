package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/analytiq-hub/docrouter-tenants/internal/config"
	"github.com/analytiq-hub/docrouter-tenants/internal/http/handler"
	httpmiddleware "github.com/analytiq-hub/docrouter-tenants/internal/http/middleware"
	"github.com/analytiq-hub/docrouter-tenants/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, tenants *handler.TenantHandler, auth *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter, mongoClient *mongo.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	v1 := r.Group("/v1")
	{
		v1.GET("/organizations", auth.Authenticate, tenants.ListOrganizations)
		v1.POST("/organizations", auth.Authenticate, tenants.CreateOrganization)
		v1.GET("/organizations/:id", auth.Authenticate, tenants.GetOrganization)
		v1.GET("/workspaces", auth.Authenticate, tenants.ListWorkspaces)
		v1.GET("/session", auth.Authenticate, tenants.Session)
		v1.DELETE("/session", auth.Authenticate, auth.Logout)
	}

	r.GET("/healthz", healthz(mongoClient))

	return r
}

func healthz(client *mongo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx, nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error_description": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
