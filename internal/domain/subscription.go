package domain

import "time"

// SubscriptionStatus enumerates subscription lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Subscription records the plan a user paid for. Amount is the plan price in
// major currency units at purchase time.
type Subscription struct {
	ID        string
	UserID    string
	PlanID    string
	PlanName  string
	Status    SubscriptionStatus
	Amount    int64
	StartDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Plan describes a purchasable subscription tier. Price is in major currency
// units per billing period.
type Plan struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Period      string
	Features    []string
}

// AmountMinor returns the plan price in minor currency units, the unit the
// payment gateway bills in.
func (p Plan) AmountMinor() int64 {
	return p.Price * 100
}
