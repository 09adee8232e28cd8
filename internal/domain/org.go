package domain

import "time"

// OrgType classifies a tenant.
type OrgType string

const (
	OrgTypeIndividual OrgType = "individual"
	OrgTypeTeam       OrgType = "team"
	OrgTypeEnterprise OrgType = "enterprise"
)

// MemberRole is the access level a member holds inside an organization.
type MemberRole string

const (
	MemberRoleAdmin MemberRole = "admin"
	MemberRoleUser  MemberRole = "user"
)

// Member is a (user, role) pair attached to an organization. Membership is
// denormalized into the organization document; at most one entry per user id.
type Member struct {
	UserID string     `bson:"user_id" json:"user_id"`
	Role   MemberRole `bson:"role" json:"role"`
}

// Organization is the canonical tenant entity. Every organization carries at
// least one admin member from the moment it is created.
type Organization struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Type      OrgType   `bson:"type" json:"type"`
	Slug      string    `bson:"slug,omitempty" json:"slug,omitempty"`
	Members   []Member  `bson:"members" json:"members"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the user belongs to the organization at any role.
func (o Organization) HasMember(userID string) bool {
	for _, m := range o.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// OwnerID returns the first admin member's user id, or empty when the
// organization has no admin.
func (o Organization) OwnerID() string {
	for _, m := range o.Members {
		if m.Role == MemberRoleAdmin {
			return m.UserID
		}
	}
	return ""
}
