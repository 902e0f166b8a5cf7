package domain

import "time"

// Comment is a discussion entry on a ticket. TicketID and AuthorID are fixed
// at creation; edits may only change content.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
