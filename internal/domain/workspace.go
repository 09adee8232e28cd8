package domain

import "time"

// WorkspaceMember is the legacy member shape kept for clients that still
// speak the workspace API.
type WorkspaceMember struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Workspace is a read-only projection of Organization under the legacy
// workspace field names. Organizations are the canonical tenant model; no
// separate workspace collection exists.
type Workspace struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug,omitempty"`
	OwnerID   string            `json:"ownerId"`
	Members   []WorkspaceMember `json:"members"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

const (
	workspaceRoleOwner  = "owner"
	workspaceRoleAdmin  = "admin"
	workspaceRoleMember = "member"
)

// AsWorkspace projects the organization into the workspace alias. The first
// admin member surfaces as the owner; remaining admins keep the admin role
// and plain users become members.
func (o Organization) AsWorkspace() Workspace {
	owner := o.OwnerID()
	members := make([]WorkspaceMember, 0, len(o.Members))
	for _, m := range o.Members {
		role := workspaceRoleMember
		switch {
		case m.UserID == owner:
			role = workspaceRoleOwner
		case m.Role == MemberRoleAdmin:
			role = workspaceRoleAdmin
		}
		members = append(members, WorkspaceMember{UserID: m.UserID, Role: role})
	}
	return Workspace{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		OwnerID:   owner,
		Members:   members,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
