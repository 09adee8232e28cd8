package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 15 * time.Second
)

// HTTPServer runs a gin engine with graceful shutdown.
type HTTPServer struct {
	engine *gin.Engine
}

// NewHTTPServer wraps the router and installs the fallback responses for
// unknown routes and methods, using the same error body as the handlers.
func NewHTTPServer(router *gin.Engine) *HTTPServer {
	router.ForwardedByClientIP = true
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "Resource not found.",
		})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":             "method_not_allowed",
			"error_description": "Method not allowed for this resource.",
		})
	})
	return &HTTPServer{engine: router}
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// within the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("drain http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
