package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/payment"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/pkg/util"
)

// PaymentsHandler exposes the subscription purchase flow.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: paymentService}
}

// ListPlans GET /payments/plans.
func (h *PaymentsHandler) ListPlans(c *fiber.Ctx) error {
	plans := h.payments.Plans()
	items := make([]dto.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		items = append(items, dto.PlanResponse{
			ID:          plan.ID,
			Name:        plan.Name,
			Description: plan.Description,
			Price:       plan.Price,
			Period:      plan.Period,
			Features:    plan.Features,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateOrder POST /payments/orders.
func (h *PaymentsHandler) CreateOrder(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.PlanID == "" {
		return util.NewValidationError("plan_id required", nil)
	}

	order, err := h.payments.InitiatePayment(c.Context(), user, req.PlanID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.OrderResponse{
		OrderID:     order.ID,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
		Receipt:     order.Receipt,
	}})
}

// VerifyPayment POST /payments/verify.
func (h *PaymentsHandler) VerifyPayment(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.PlanID == "" || req.PaymentID == "" || req.OrderID == "" || req.Signature == "" {
		return util.NewValidationError("plan_id, payment_id, order_id, signature required", nil)
	}

	outcome, err := h.payments.ConfirmPayment(c.Context(), user, req.PlanID, payment.Result{
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		Signature: req.Signature,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PaymentOutcomeResponse{
		Verified:  outcome.Verified,
		PaymentID: outcome.PaymentID,
		OrderID:   outcome.OrderID,
		Reason:    outcome.Reason,
	}})
}
