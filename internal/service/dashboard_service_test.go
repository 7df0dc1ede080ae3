package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/view"
)

type memStatsCache struct {
	entries map[string]view.Stats
	hits    int
	sets    int
}

func newMemStatsCache() *memStatsCache {
	return &memStatsCache{entries: map[string]view.Stats{}}
}

func (c *memStatsCache) Get(_ context.Context, userID string) (view.Stats, bool) {
	stats, ok := c.entries[userID]
	if ok {
		c.hits++
	}
	return stats, ok
}

func (c *memStatsCache) Set(_ context.Context, userID string, stats view.Stats) {
	c.sets++
	c.entries[userID] = stats
}

func (c *memStatsCache) Invalidate(_ context.Context, userID string) {
	delete(c.entries, userID)
}

func seedDashboard(t *testing.T, svc *TicketService) {
	t.Helper()
	ctx := context.Background()
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}

	for _, title := range []string{"Login broken", "Slow dashboard", "Billing question"} {
		_, err := svc.CreateTicket(ctx, "u1", CreateTicketInput{Title: title, Description: "details"})
		require.NoError(t, err)
	}
	// move one ticket to in-progress so the buckets differ
	tickets, err := svc.ListUserTickets(ctx, "u1")
	require.NoError(t, err)
	status := domain.TicketStatusInProgress
	_, err = svc.UpdateTicket(ctx, admin, tickets[0].ID, TicketPatch{Status: &status})
	require.NoError(t, err)
}

func TestDashboardOverview(t *testing.T) {
	ticketSvc, _, _ := newTestTicketService()
	seedDashboard(t, ticketSvc)

	cache := newMemStatsCache()
	dashboard := NewDashboardService(ticketSvc.tickets, cache)

	filtered, stats, err := dashboard.Overview(context.Background(), "u1", view.Criteria{
		Status: string(domain.TicketStatusOpen),
	})
	require.NoError(t, err)

	assert.Len(t, filtered, 2)
	// stats cover the unfiltered set
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Open)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboardStatsCaching(t *testing.T) {
	ticketSvc, _, _ := newTestTicketService()
	seedDashboard(t, ticketSvc)

	cache := newMemStatsCache()
	dashboard := NewDashboardService(ticketSvc.tickets, cache)
	ctx := context.Background()

	first, err := dashboard.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, 0, cache.hits)
	assert.Equal(t, 1, cache.sets)

	second, err := dashboard.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboardStatsWithoutCache(t *testing.T) {
	ticketSvc, _, _ := newTestTicketService()
	seedDashboard(t, ticketSvc)

	dashboard := NewDashboardService(ticketSvc.tickets, nil)
	stats, err := dashboard.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
}

func TestDashboardInvalidation(t *testing.T) {
	tickets := newMemTicketRepo()
	comments := &memCommentRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	ticketSvc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		CommentRepo: comments,
		Dispatcher:  dispatcher,
	})

	cache := newMemStatsCache()
	dashboard := NewDashboardService(tickets, cache)
	dashboard.RegisterInvalidation(dispatcher)
	ctx := context.Background()

	ticket, err := ticketSvc.CreateTicket(ctx, "u1", CreateTicketInput{Title: "First", Description: "d"})
	require.NoError(t, err)

	stats, err := dashboard.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	_, warm := cache.Get(ctx, "u1")
	require.True(t, warm)

	// a new ticket drops the cached entry, so the next read recomputes
	_, err = ticketSvc.CreateTicket(ctx, "u1", CreateTicketInput{Title: "Second", Description: "d"})
	require.NoError(t, err)
	_, warm = cache.Get(ctx, "u1")
	assert.False(t, warm)

	stats, err = dashboard.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)

	// comments invalidate too
	author := &domain.User{ID: "u1", Name: "Asha", Role: domain.RoleUser}
	_, err = ticketSvc.AddComment(ctx, author, ticket.ID, CommentInput{Content: "ping"})
	require.NoError(t, err)
	_, warm = cache.Get(ctx, "u1")
	assert.False(t, warm)
}
