package domain

import "time"

// Role values. Role is an opaque string; the only value with special meaning
// is RoleAdmin.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the domain model for account holders.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	PhotoURL     *string
	Subscription *Subscription
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may triage tickets.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsPremium reports whether the user has an active paid subscription.
func (u *User) IsPremium() bool {
	return u != nil && u.Subscription != nil && u.Subscription.Status == SubscriptionStatusActive
}
