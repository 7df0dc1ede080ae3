package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/payment"
	"github.com/spec-kit/servicedesk/pkg/util"
)

type fakeGateway struct {
	orderErr    error
	lastOrder   payment.OrderRequest
	acceptedSig string
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (*payment.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.lastOrder = req
	return &payment.Order{
		ID:          "order_test_1",
		Receipt:     req.Receipt,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
	}, nil
}

func (g *fakeGateway) VerifySignature(result payment.Result) bool {
	return result.Signature == g.acceptedSig
}

type memSubscriptionRepo struct {
	byUser map[string]domain.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{byUser: map[string]domain.Subscription{}}
}

func (r *memSubscriptionRepo) Upsert(_ context.Context, sub *domain.Subscription) error {
	if sub.ID == "" {
		sub.ID = "sub_" + sub.UserID
	}
	r.byUser[sub.UserID] = *sub
	return nil
}

func (r *memSubscriptionRepo) GetByUser(_ context.Context, userID string) (*domain.Subscription, error) {
	sub, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	copied := sub
	return &copied, nil
}

func newTestPaymentService(gateway *fakeGateway) (*PaymentService, *memSubscriptionRepo) {
	subs := newMemSubscriptionRepo()
	svc := NewPaymentService(config.PaymentConfig{Currency: "INR"}, PaymentDependencies{
		Gateway:          gateway,
		SubscriptionRepo: subs,
		Dispatcher:       events.NewInMemoryDispatcher(),
	})
	return svc, subs
}

func TestPlanCatalog(t *testing.T) {
	svc, _ := newTestPaymentService(&fakeGateway{})

	plans := svc.Plans()
	require.Len(t, plans, 3)

	prices := map[string]int64{}
	for _, plan := range plans {
		prices[plan.ID] = plan.Price
		assert.Equal(t, "month", plan.Period)
		assert.NotEmpty(t, plan.Features)
	}
	assert.Equal(t, int64(999), prices["starter"])
	assert.Equal(t, int64(2999), prices["professional"])
	assert.Equal(t, int64(5999), prices["enterprise"])

	plan, ok := svc.PlanByID("professional")
	require.True(t, ok)
	assert.Equal(t, int64(299900), plan.AmountMinor())

	_, ok = svc.PlanByID("gold")
	assert.False(t, ok)
}

func TestInitiatePayment(t *testing.T) {
	user := &domain.User{ID: "u1"}

	t.Run("unknown plan rejected before the gateway is called", func(t *testing.T) {
		gateway := &fakeGateway{}
		svc, _ := newTestPaymentService(gateway)
		_, err := svc.InitiatePayment(context.Background(), user, "gold")
		assert.True(t, util.HasCode(err, util.CodeValidationFailed))
		assert.Empty(t, gateway.lastOrder.Receipt)
	})

	t.Run("gateway failure surfaces as payment error", func(t *testing.T) {
		gateway := &fakeGateway{orderErr: errors.New("gateway down")}
		svc, _ := newTestPaymentService(gateway)
		_, err := svc.InitiatePayment(context.Background(), user, "starter")
		assert.True(t, util.HasCode(err, util.CodePaymentFailed))
	})

	t.Run("order carries plan amount in minor units", func(t *testing.T) {
		gateway := &fakeGateway{}
		svc, _ := newTestPaymentService(gateway)
		order, err := svc.InitiatePayment(context.Background(), user, "starter")
		require.NoError(t, err)
		assert.Equal(t, int64(99900), order.AmountMinor)
		assert.Equal(t, "INR", order.Currency)
		assert.NotEmpty(t, gateway.lastOrder.Receipt)
	})
}

func TestConfirmPayment(t *testing.T) {
	user := &domain.User{ID: "u1"}
	result := payment.Result{PaymentID: "pay_1", OrderID: "order_1", Signature: "good"}

	t.Run("verified payment activates subscription", func(t *testing.T) {
		svc, subs := newTestPaymentService(&fakeGateway{acceptedSig: "good"})
		outcome, err := svc.ConfirmPayment(context.Background(), user, "professional", result)
		require.NoError(t, err)
		assert.True(t, outcome.Verified)
		assert.Equal(t, "pay_1", outcome.PaymentID)

		sub, err := subs.GetByUser(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "professional", sub.PlanID)
		assert.Equal(t, domain.SubscriptionStatusActive, sub.Status)
		assert.Equal(t, int64(2999), sub.Amount)
	})

	t.Run("bad signature leaves no subscription", func(t *testing.T) {
		svc, subs := newTestPaymentService(&fakeGateway{acceptedSig: "good"})
		tampered := result
		tampered.Signature = "forged"

		outcome, err := svc.ConfirmPayment(context.Background(), user, "professional", tampered)
		assert.True(t, util.HasCode(err, util.CodePaymentVerificationFailed))
		assert.False(t, outcome.Verified)
		assert.Equal(t, "signature verification failed", outcome.Reason)

		sub, err := subs.GetByUser(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		svc, _ := newTestPaymentService(&fakeGateway{acceptedSig: "good"})
		_, err := svc.ConfirmPayment(context.Background(), user, "gold", result)
		assert.True(t, util.HasCode(err, util.CodeValidationFailed))
	})

	t.Run("repurchase replaces the previous subscription", func(t *testing.T) {
		svc, subs := newTestPaymentService(&fakeGateway{acceptedSig: "good"})
		_, err := svc.ConfirmPayment(context.Background(), user, "starter", result)
		require.NoError(t, err)
		_, err = svc.ConfirmPayment(context.Background(), user, "enterprise", result)
		require.NoError(t, err)

		sub, err := subs.GetByUser(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "enterprise", sub.PlanID)
	})
}
