package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// SubscriptionRepository stores the per-user subscription record. A user has
// at most one; a later purchase replaces it.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *domain.Subscription) error
	GetByUser(ctx context.Context, userID string) (*domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (user_id, plan_id, plan_name, status, amount, start_date)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id) DO UPDATE SET
            plan_id=EXCLUDED.plan_id,
            plan_name=EXCLUDED.plan_name,
            status=EXCLUDED.status,
            amount=EXCLUDED.amount,
            start_date=EXCLUDED.start_date,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		sub.UserID,
		sub.PlanID,
		sub.PlanName,
		sub.Status,
		sub.Amount,
		sub.StartDate,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

// GetByUser returns nil without error when the user has no subscription.
func (r *subscriptionRepository) GetByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	const query = `
        SELECT id, user_id, plan_id, plan_name, status, amount, start_date, created_at, updated_at
        FROM subscriptions WHERE user_id=$1`
	var sub domain.Subscription
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanID,
		&sub.PlanName,
		&sub.Status,
		&sub.Amount,
		&sub.StartDate,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}
