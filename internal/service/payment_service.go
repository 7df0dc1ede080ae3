package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/payment"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/pkg/util"
)

// PaymentService drives the subscription purchase flow: plan catalog, order
// initiation and server-side verification of the gateway's payment result.
type PaymentService struct {
	gateway    payment.Gateway
	subs       repository.SubscriptionRepository
	dispatcher events.Dispatcher
	currency   string
	plans      []domain.Plan
}

// PaymentDependencies bundles collaborators for payment service.
type PaymentDependencies struct {
	Gateway          payment.Gateway
	SubscriptionRepo repository.SubscriptionRepository
	Dispatcher       events.Dispatcher
}

// NewPaymentService constructs the service with the standard plan catalog.
func NewPaymentService(cfg config.PaymentConfig, deps PaymentDependencies) *PaymentService {
	return &PaymentService{
		gateway:    deps.Gateway,
		subs:       deps.SubscriptionRepo,
		dispatcher: deps.Dispatcher,
		currency:   cfg.Currency,
		plans:      defaultPlans(),
	}
}

// Plans returns the purchasable subscription tiers.
func (s *PaymentService) Plans() []domain.Plan {
	return s.plans
}

// PlanByID looks up a plan in the catalog.
func (s *PaymentService) PlanByID(planID string) (domain.Plan, bool) {
	for _, plan := range s.plans {
		if plan.ID == planID {
			return plan, true
		}
	}
	return domain.Plan{}, false
}

// InitiatePayment creates a gateway order for the selected plan.
func (s *PaymentService) InitiatePayment(ctx context.Context, user *domain.User, planID string) (*payment.Order, error) {
	plan, ok := s.PlanByID(planID)
	if !ok {
		return nil, util.NewValidationError("unknown plan", map[string]any{"plan_id": planID})
	}

	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor: plan.AmountMinor(),
		Currency:    s.currency,
		Receipt:     uuid.NewString(),
		Description: plan.Name + " Plan - Monthly Subscription",
	})
	if err != nil {
		return nil, util.NewPaymentFailed(err)
	}
	return order, nil
}

// ConfirmPayment verifies the gateway result and, on success, activates the
// subscription. A signature mismatch is terminal for the attempt: the
// outcome carries the reason and the returned error is distinct from an
// initiation failure. No retry is performed.
func (s *PaymentService) ConfirmPayment(ctx context.Context, user *domain.User, planID string, result payment.Result) (payment.Outcome, error) {
	plan, ok := s.PlanByID(planID)
	if !ok {
		return payment.Outcome{}, util.NewValidationError("unknown plan", map[string]any{"plan_id": planID})
	}

	if !s.gateway.VerifySignature(result) {
		outcome := payment.Outcome{
			Verified:  false,
			PaymentID: result.PaymentID,
			OrderID:   result.OrderID,
			Reason:    "signature verification failed",
		}
		return outcome, util.NewPaymentVerificationFailed(outcome.Reason)
	}

	sub := domain.Subscription{
		UserID:    user.ID,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Status:    domain.SubscriptionStatusActive,
		Amount:    plan.Price,
		StartDate: time.Now(),
	}
	if err := s.UpdateSubscription(ctx, user.ID, sub, result.PaymentID); err != nil {
		return payment.Outcome{}, err
	}

	return payment.Outcome{
		Verified:  true,
		PaymentID: result.PaymentID,
		OrderID:   result.OrderID,
	}, nil
}

// UpdateSubscription persists the subscription state for a user and announces
// the activation.
func (s *PaymentService) UpdateSubscription(ctx context.Context, userID string, sub domain.Subscription, paymentID string) error {
	sub.UserID = userID
	if err := s.subs.Upsert(ctx, &sub); err != nil {
		return err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSubscriptionActivated,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload: events.SubscriptionActivatedPayload{
				PlanID:    sub.PlanID,
				PlanName:  sub.PlanName,
				Amount:    sub.Amount,
				PaymentID: paymentID,
			},
		})
	}
	return nil
}

func defaultPlans() []domain.Plan {
	return []domain.Plan{
		{
			ID:          "starter",
			Name:        "Starter",
			Description: "Perfect for small teams getting started",
			Price:       999,
			Period:      "month",
			Features: []string{
				"Up to 100 tickets/month",
				"Basic reporting",
				"Email support",
				"2 team members",
				"Standard integrations",
			},
		},
		{
			ID:          "professional",
			Name:        "Professional",
			Description: "Ideal for growing businesses",
			Price:       2999,
			Period:      "month",
			Features: []string{
				"Up to 1000 tickets/month",
				"Advanced reporting & analytics",
				"Priority support",
				"10 team members",
				"Custom integrations",
				"SLA management",
				"Custom workflows",
			},
		},
		{
			ID:          "enterprise",
			Name:        "Enterprise",
			Description: "For large organizations with complex needs",
			Price:       5999,
			Period:      "month",
			Features: []string{
				"Unlimited tickets",
				"Enterprise reporting",
				"24/7 dedicated support",
				"Unlimited team members",
				"Custom integrations & API",
				"Advanced SLA management",
				"Custom branding",
				"SSO & advanced security",
			},
		},
	}
}
