// Package view derives displayable ticket subsets and summary statistics.
// Everything here is pure and safe for concurrent use.
package view

import (
	"strings"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// FilterAll is the wildcard value for status and priority criteria.
const FilterAll = "all"

// Criteria is the active search/status/priority filter for a ticket list.
// Zero values for Status and Priority are treated as FilterAll.
type Criteria struct {
	SearchTerm string
	Status     string
	Priority   string
}

// Stats aggregates counts per status bucket over a user's full ticket set.
// Closed tickets contribute to Total only.
type Stats struct {
	Total      int
	Open       int
	InProgress int
	Resolved   int
}

// FilterAndAggregate applies the criteria to the ticket set and computes
// summary statistics. Stats are counted over the unfiltered input so the
// dashboard summary does not change as the user narrows the list.
func FilterAndAggregate(tickets []domain.Ticket, criteria Criteria) ([]domain.Ticket, Stats) {
	stats := Aggregate(tickets)

	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if criteria.Matches(&ticket) {
			filtered = append(filtered, ticket)
		}
	}
	return filtered, stats
}

// Aggregate computes summary statistics over the full ticket set.
func Aggregate(tickets []domain.Ticket) Stats {
	stats := Stats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		}
	}
	return stats
}

// Matches reports whether a ticket satisfies all three filter conditions.
func (c Criteria) Matches(ticket *domain.Ticket) bool {
	if !c.matchesSearch(ticket) {
		return false
	}
	if c.Status != "" && c.Status != FilterAll && ticket.Status != domain.TicketStatus(c.Status) {
		return false
	}
	if c.Priority != "" && c.Priority != FilterAll && ticket.Priority != domain.TicketPriority(c.Priority) {
		return false
	}
	return true
}

func (c Criteria) matchesSearch(ticket *domain.Ticket) bool {
	if c.SearchTerm == "" {
		return true
	}
	term := strings.ToLower(c.SearchTerm)
	return strings.Contains(strings.ToLower(ticket.Title), term) ||
		strings.Contains(strings.ToLower(ticket.Description), term)
}

// Percent returns count as a share of the total in percent. An empty ticket
// set yields 0 for every bucket rather than dividing by zero.
func (s Stats) Percent(count int) float64 {
	total := s.Total
	if total < 1 {
		total = 1
	}
	return float64(count) / float64(total) * 100
}
