package models

import "time"

// Role is the closed set of account roles. Every authorization check
// switches on this type rather than comparing raw strings.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// CanTeach reports whether the role may own courses.
func (r Role) CanTeach() bool {
	return r == RoleInstructor || r == RoleAdmin
}

type User struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Username             string    `gorm:"uniqueIndex;not null" json:"username"`
	Email                string    `gorm:"uniqueIndex;not null" json:"email"`
	Password             string    `gorm:"not null" json:"-"`
	FirstName            string    `json:"firstName,omitempty"`
	LastName             string    `json:"lastName,omitempty"`
	ProfileImageURL      string    `json:"profileImageUrl,omitempty"`
	Role                 Role      `gorm:"not null;default:student" json:"role"`
	StripeCustomerID     string    `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string    `json:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
