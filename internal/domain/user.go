package domain

import "time"

type UserRole string

const (
	RoleBillingOwner UserRole = "billing_owner"
	RoleAdmin        UserRole = "admin"
	RoleUser         UserRole = "user"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           UserRole  `json:"role"`
	OrganizationID string    `json:"organization_id"`
	IsActivated    bool      `json:"is_activated"`
	SetupToken     string    `json:"-"`
	CreatedOn      time.Time `json:"created_on"`
}

// Permissions returns the capability strings granted by a role. A sameEmail
// signup creates its founding user as admin directly, so admin carries the
// billing capabilities too.
func (u *User) Permissions() []string {
	switch u.Role {
	case RoleBillingOwner:
		return []string{"billing:view", "billing:manage"}
	case RoleAdmin:
		return []string{"billing:view", "billing:manage", "users:manage", "org:manage"}
	default:
		return []string{"org:view"}
	}
}
