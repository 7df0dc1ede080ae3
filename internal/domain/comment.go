package domain

import "time"

// Comment is an append-only message in a ticket thread. UserName snapshots the
// author display name at write time. Internal comments are visible to admins
// only.
type Comment struct {
	ID         string
	TicketID   string
	UserID     string
	UserName   string
	Content    string
	IsInternal bool
	CreatedAt  time.Time
}
