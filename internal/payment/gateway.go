// Package payment defines the gateway boundary for subscription purchases.
package payment

import "context"

// OrderRequest describes a payment order to create with the gateway.
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Description string
}

// Order is the gateway's record of a pending payment.
type Order struct {
	ID          string
	Receipt     string
	AmountMinor int64
	Currency    string
}

// Result is the triple the gateway hands back after the user completes
// checkout. It must be verified server-side before any state changes.
type Result struct {
	PaymentID string
	OrderID   string
	Signature string
}

// Outcome is the explicit, testable result of a payment attempt. A failed
// verification carries a Reason and leaves Verified false.
type Outcome struct {
	Verified  bool
	PaymentID string
	OrderID   string
	Reason    string
}

// Gateway abstracts the external payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(result Result) bool
}
