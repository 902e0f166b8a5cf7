package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Progression is not
// enforced as monotonic; any status may be set by an authorized actor.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// TicketCategory enumerates coarse issue classification.
type TicketCategory string

const (
	CategoryHardware TicketCategory = "HARDWARE"
	CategorySoftware TicketCategory = "SOFTWARE"
	CategoryNetwork  TicketCategory = "NETWORK"
	CategoryAccount  TicketCategory = "ACCOUNT"
	CategoryOther    TicketCategory = "OTHER"
)

// Ticket is the aggregate for support requests. CreatorID is set exactly once
// at creation and never changes.
type Ticket struct {
	ID           string
	Title        string
	Description  string
	Status       TicketStatus
	Category     TicketCategory
	Priority     TicketPriority
	CreatorID    string
	AssignedToID *string
	AssignedByID *string
	AssignedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
