package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/pkg/util"
)

type memUserRepo struct {
	seq   int
	byID  map[string]domain.User
	email map[string]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]domain.User{}, email: map[string]string{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("u%d", r.seq)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	r.email[user.Email] = user.ID
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.byID[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := r.email[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func newTestAuthService() (*AuthService, *memUserRepo, *memSubscriptionRepo) {
	users := newMemUserRepo()
	subs := newMemSubscriptionRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4, // bcrypt.MinCost keeps the suite fast
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: users, SubscriptionRepo: subs})
	return svc, users, subs
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, token, exp, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, _, _, err := svc.Register(ctx, "Other", "asha@example.com", "different")
		assert.True(t, util.HasCode(err, util.CodeConflict))
	})
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	registered, _, _, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, token, _, err := svc.Login(ctx, "asha@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "asha@example.com", "nope")
		assert.True(t, util.HasCode(err, util.CodeUnauthorized))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22")
		assert.True(t, util.HasCode(err, util.CodeUnauthorized))
	})
}

func TestUpdateProfile(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.UpdateProfile(ctx, "missing", ProfilePatch{Name: &name})
		assert.True(t, util.HasCode(err, util.CodeNotFound))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		name := "   "
		_, err := svc.UpdateProfile(ctx, user.ID, ProfilePatch{Name: &name})
		assert.True(t, util.HasCode(err, util.CodeValidationFailed))
	})

	t.Run("merges and persists", func(t *testing.T) {
		name := "Asha K"
		photo := "https://cdn.example.com/asha.png"
		updated, err := svc.UpdateProfile(ctx, user.ID, ProfilePatch{Name: &name, PhotoURL: &photo})
		require.NoError(t, err)
		assert.Equal(t, "Asha K", updated.Name)
		require.NotNil(t, updated.PhotoURL)
		assert.Equal(t, photo, *updated.PhotoURL)

		stored, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha K", stored.Name)
		assert.Equal(t, "asha@example.com", stored.Email)
	})

	t.Run("nil fields stay untouched", func(t *testing.T) {
		photo := "https://cdn.example.com/new.png"
		updated, err := svc.UpdateProfile(ctx, user.ID, ProfilePatch{PhotoURL: &photo})
		require.NoError(t, err)
		assert.Equal(t, "Asha K", updated.Name)
	})
}

func TestProfile(t *testing.T) {
	svc, _, subs := newTestAuthService()
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Profile(ctx, "missing")
		assert.True(t, util.HasCode(err, util.CodeNotFound))
	})

	t.Run("no subscription", func(t *testing.T) {
		profile, err := svc.Profile(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, profile.Subscription)
		assert.False(t, profile.IsPremium())
	})

	t.Run("active subscription attached", func(t *testing.T) {
		require.NoError(t, subs.Upsert(ctx, &domain.Subscription{
			UserID:   user.ID,
			PlanID:   "starter",
			PlanName: "Starter",
			Status:   domain.SubscriptionStatusActive,
			Amount:   999,
		}))

		profile, err := svc.Profile(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, profile.Subscription)
		assert.Equal(t, "starter", profile.Subscription.PlanID)
		assert.True(t, profile.IsPremium())
	})
}
