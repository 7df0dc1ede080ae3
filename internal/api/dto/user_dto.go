package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UpdateProfileRequest carries a partial profile update; absent fields stay
// untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photo_url"`
}

// ProfileResponse is the current-session identity shape.
type ProfileResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	Role         string                `json:"role"`
	PhotoURL     *string               `json:"photo_url,omitempty"`
	IsPremium    bool                  `json:"is_premium"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}
