package dto

import "time"

// PlanResponse describes a purchasable plan.
type PlanResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
}

// CreateOrderRequest starts a payment for a plan.
type CreateOrderRequest struct {
	PlanID string `json:"plan_id"`
}

// OrderResponse is the pending gateway order handed to the client checkout.
type OrderResponse struct {
	OrderID     string `json:"order_id"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

// VerifyPaymentRequest carries the gateway's checkout result triple.
type VerifyPaymentRequest struct {
	PlanID    string `json:"plan_id"`
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Signature string `json:"signature"`
}

// PaymentOutcomeResponse reports the verification result.
type PaymentOutcomeResponse struct {
	Verified  bool   `json:"verified"`
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Reason    string `json:"reason,omitempty"`
}

// SubscriptionResponse describes the user's subscription state.
type SubscriptionResponse struct {
	PlanID    string    `json:"plan_id"`
	PlanName  string    `json:"plan_name"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	StartDate time.Time `json:"start_date"`
}
