package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/pkg/util"
)

// TicketService coordinates ticket workflows: creation, listing, field
// merges, status transitions and the comment thread.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
}

// TicketPatch carries a partial update. Nil fields are left untouched;
// non-nil fields win at field level (last write wins, no merge detection).
type TicketPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
	AssignedTo  *string
}

// CommentInput describes a comment to append.
type CommentInput struct {
	Content    string
	IsInternal bool
}

// AdminTicketFilter describes the triage listing filters.
type AdminTicketFilter struct {
	Status     string
	Priority   string
	SearchTerm string
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a ticket for a user. New tickets always start open
// with an empty comment thread.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input CreateTicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, util.NewValidationError("title required", nil)
	}
	if description == "" {
		return nil, util.NewValidationError("description required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, util.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		Category:    strings.TrimSpace(input.Category),
		Comments:    []domain.Comment{},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		UserID:   userID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// ListUserTickets returns all tickets owned by userID, most recently updated
// first. An unknown user yields an empty slice, not an error.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

// GetTicket fetches a ticket with its comment thread. Internal comments are
// stripped for viewers without the admin role; non-admins may only read
// their own tickets.
func (s *TicketService) GetTicket(ctx context.Context, viewer *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && ticket.UserID != viewer.ID {
		return nil, util.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() {
		visible := make([]domain.Comment, 0, len(comments))
		for _, comment := range comments {
			if comment.IsInternal {
				continue
			}
			visible = append(visible, comment)
		}
		comments = visible
	}
	ticket.Comments = comments
	return ticket, nil
}

// UpdateTicket merges the patch into the ticket and bumps updated_at. Status
// and assignment changes are admin-only and status changes must follow the
// transition graph.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && ticket.UserID != actor.ID {
		return nil, util.NewForbidden("access denied")
	}
	if !actor.IsAdmin() && (patch.Status != nil || patch.AssignedTo != nil) {
		return nil, util.NewForbidden("admin role required for status or assignment changes")
	}

	oldStatus := ticket.Status
	if patch.Status != nil && *patch.Status != oldStatus {
		if !patch.Status.Valid() {
			return nil, util.NewValidationError("unknown status", map[string]any{"status": *patch.Status})
		}
		if !domain.CanTransition(oldStatus, *patch.Status) {
			return nil, util.NewValidationError("invalid status transition", map[string]any{
				"from": oldStatus,
				"to":   *patch.Status,
			})
		}
		ticket.Status = *patch.Status
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, util.NewValidationError("title required", nil)
		}
		ticket.Title = title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, util.NewValidationError("description required", nil)
		}
		ticket.Description = description
	}
	if patch.Category != nil {
		ticket.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, util.NewValidationError("unknown priority", map[string]any{"priority": *patch.Priority})
		}
		ticket.Priority = *patch.Priority
	}
	if patch.AssignedTo != nil {
		ticket.AssignedTo = patch.AssignedTo
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	if ticket.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			UserID:   ticket.UserID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// AddComment appends a comment to the ticket thread and bumps the ticket's
// updated_at. Internal comments may only be written by admins.
func (s *TicketService) AddComment(ctx context.Context, author *domain.User, ticketID string, input CommentInput) (*domain.Comment, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !author.IsAdmin() && ticket.UserID != author.ID {
		return nil, util.NewForbidden("access denied")
	}
	if input.IsInternal && !author.IsAdmin() {
		return nil, util.NewForbidden("internal comments are admin-only")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, util.NewValidationError("content required", nil)
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		UserID:     author.ID,
		UserName:   author.Name,
		Content:    content,
		IsInternal: input.IsInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.tickets.Touch(ctx, ticket.ID); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		UserID:   ticket.UserID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:      comment.ID,
			AuthorID:       author.ID,
			AuthorName:     author.Name,
			IsInternal:     comment.IsInternal,
			ContentPreview: stringPreview(comment.Content, 120),
		},
	})
	return comment, nil
}

// ListAllTickets returns tickets across all users for admin triage.
func (s *TicketService) ListAllTickets(ctx context.Context, filter AdminTicketFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Status != "" && filter.Status != "all" {
		repoFilter.Statuses = []domain.TicketStatus{domain.TicketStatus(filter.Status)}
	}
	if filter.Priority != "" && filter.Priority != "all" {
		repoFilter.Priorities = []domain.TicketPriority{domain.TicketPriority(filter.Priority)}
	}
	if strings.TrimSpace(filter.SearchTerm) != "" {
		term := strings.TrimSpace(filter.SearchTerm)
		repoFilter.SearchTerm = &term
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
