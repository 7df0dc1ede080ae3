package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/internal/view"
)

// StatsCache caches per-user dashboard statistics. Misses are silent; the
// caller recomputes from the ticket set.
type StatsCache interface {
	Get(ctx context.Context, userID string) (view.Stats, bool)
	Set(ctx context.Context, userID string, stats view.Stats)
	Invalidate(ctx context.Context, userID string)
}

// DashboardService produces the filtered ticket list and summary statistics
// for a user's dashboard. Statistics are cached and invalidated on ticket
// mutation events rather than rescanned on every render.
type DashboardService struct {
	tickets repository.TicketRepository
	cache   StatsCache
}

// NewDashboardService constructs the service. cache may be nil.
func NewDashboardService(tickets repository.TicketRepository, cache StatsCache) *DashboardService {
	return &DashboardService{tickets: tickets, cache: cache}
}

// Overview returns the filtered subset and stats for the user's dashboard.
// Stats always cover the unfiltered ticket set.
func (s *DashboardService) Overview(ctx context.Context, userID string, criteria view.Criteria) ([]domain.Ticket, view.Stats, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, view.Stats{}, err
	}
	filtered, stats := view.FilterAndAggregate(tickets, criteria)
	if s.cache != nil {
		s.cache.Set(ctx, userID, stats)
	}
	return filtered, stats, nil
}

// Stats returns the summary counts alone, served from cache when warm.
func (s *DashboardService) Stats(ctx context.Context, userID string) (view.Stats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx, userID); ok {
			return stats, nil
		}
	}
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return view.Stats{}, err
	}
	stats := view.Aggregate(tickets)
	if s.cache != nil {
		s.cache.Set(ctx, userID, stats)
	}
	return stats, nil
}

// RegisterInvalidation drops a user's cached stats whenever one of their
// tickets mutates.
func (s *DashboardService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil || s.cache == nil {
		return
	}
	invalidate := func(ctx context.Context, event events.Event) error {
		s.cache.Invalidate(ctx, event.UserID)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, invalidate)
	dispatcher.Subscribe(events.EventTicketStatusChanged, invalidate)
	dispatcher.Subscribe(events.EventTicketCommentAdded, invalidate)
}

// redisStatsCache stores stats as JSON under a per-user key.
type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStatsCache builds a Redis-backed stats cache.
func NewRedisStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) StatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisStatsCache{client: client, ttl: ttl, logger: logger}
}

func statsKey(userID string) string {
	return "dashboard:stats:" + userID
}

func (c *redisStatsCache) Get(ctx context.Context, userID string) (view.Stats, bool) {
	if c.client == nil {
		return view.Stats{}, false
	}
	raw, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("stats cache read failed", zap.Error(err))
		}
		return view.Stats{}, false
	}
	var stats view.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return view.Stats{}, false
	}
	return stats, true
}

func (c *redisStatsCache) Set(ctx context.Context, userID string, stats view.Stats) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("stats cache write failed", zap.Error(err))
	}
}

func (c *redisStatsCache) Invalidate(ctx context.Context, userID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey(userID)).Err(); err != nil {
		c.logger.Debug("stats cache invalidate failed", zap.Error(err))
	}
}
