package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/analytiq-hub/docrouter-tenants/internal/directory"
	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
	"github.com/analytiq-hub/docrouter-tenants/internal/http/middleware"
	"github.com/analytiq-hub/docrouter-tenants/internal/provision"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

// TenantHandler orchestrates the organization and session endpoints.
type TenantHandler struct {
	Directory   *directory.Service
	Provisioner *provision.Provisioner
}

// NewTenantHandler creates the handler set.
func NewTenantHandler(dir *directory.Service, prov *provision.Provisioner) *TenantHandler {
	return &TenantHandler{Directory: dir, Provisioner: prov}
}

// ListOrganizations returns the caller's organizations, provisioning the
// personal default when none exist yet.
func (h *TenantHandler) ListOrganizations(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	orgs, err := h.organizationsFor(c, sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// CreateOrganization handles user-initiated organization creation.
func (h *TenantHandler) CreateOrganization(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "error_description": "Invalid request body."})
		return
	}

	org, err := h.Directory.Create(c.Request.Context(), directory.CreateInput{Name: req.Name, Slug: req.Slug}, sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organization": org})
}

// GetOrganization loads a single organization the caller belongs to. The
// path parameter is the organization id or its slug.
func (h *TenantHandler) GetOrganization(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	org, err := h.Directory.Get(c.Request.Context(), c.Param("id"), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organization": org})
}

// ListWorkspaces serves the caller's organizations under the legacy
// workspace field names.
func (h *TenantHandler) ListWorkspaces(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	orgs, err := h.organizationsFor(c, sess)
	if err != nil {
		respondError(c, err)
		return
	}

	workspaces := make([]domain.Workspace, 0, len(orgs))
	for _, org := range orgs {
		workspaces = append(workspaces, org.AsWorkspace())
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// Session returns the normalized application session.
func (h *TenantHandler) Session(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

func (h *TenantHandler) organizationsFor(c *gin.Context, sess session.AppSession) ([]domain.Organization, error) {
	ctx := c.Request.Context()
	orgs, err := h.Directory.ListForUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		org, err := h.Provisioner.EnsureDefault(ctx, sess)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "error_description": "Authentication required."})
}

func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case domain.KindUnauthenticated:
		status = http.StatusUnauthorized
	case domain.KindUnauthorized:
		status = http.StatusForbidden
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindNotFound:
		status = http.StatusNotFound
	}

	description := "Internal server error."
	var classified *domain.Error
	if errors.As(err, &classified) {
		description = classified.Message
	}
	c.JSON(status, gin.H{"error": string(kind), "error_description": description})
}
