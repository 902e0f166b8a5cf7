// Package policy is the pure access decision component. Given an actor's role
// (and, where relevant, their relationship to a ticket) it answers which query
// scope an operation must use, or denies outright. It performs no I/O and
// holds no state; services consume its decisions uniformly for tickets and
// comments.
package policy

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Scope narrows which tickets an operation may touch.
type Scope int

const (
	// ScopeNone denies the operation entirely. Unknown roles always land here.
	ScopeNone Scope = iota
	// ScopeOwn restricts to tickets created by the actor.
	ScopeOwn
	// ScopeAssigned restricts to tickets currently assigned to the actor.
	ScopeAssigned
	// ScopeAll places no ownership restriction.
	ScopeAll
)

// ReadScope answers how an actor may read or list tickets.
func ReadScope(role domain.UserRole) Scope {
	switch role {
	case domain.RoleUser:
		return ScopeOwn
	case domain.RoleSupportAgent:
		return ScopeAssigned
	case domain.RoleAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

// ContentScope answers how an actor may touch a ticket's content: info
// updates and comment CRUD. Agents and admins reach any ticket, users only
// their own.
func ContentScope(role domain.UserRole) Scope {
	switch role {
	case domain.RoleUser:
		return ScopeOwn
	case domain.RoleSupportAgent, domain.RoleAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

// DeleteScope answers ticket deletion. Support agents are always denied.
func DeleteScope(role domain.UserRole) Scope {
	switch role {
	case domain.RoleUser:
		return ScopeOwn
	case domain.RoleAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

// CanCreateTicket limits creation to users and admins; the creator is always
// forced to the actor regardless of payload.
func CanCreateTicket(role domain.UserRole) bool {
	return role == domain.RoleUser || role == domain.RoleAdmin
}

// CanUpdateStatus limits status changes to support agents and admins, on any
// ticket.
func CanUpdateStatus(role domain.UserRole) bool {
	return role == domain.RoleSupportAgent || role == domain.RoleAdmin
}

// CanAssign limits assignment to support agents and admins.
func CanAssign(role domain.UserRole) bool {
	return role == domain.RoleSupportAgent || role == domain.RoleAdmin
}

// CanReassign decides whether the actor may (re)assign the given ticket.
// Admins may assign any ticket; a support agent only one currently assigned
// to themselves.
func CanReassign(role domain.UserRole, actorID string, ticket *domain.Ticket) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupportAgent:
		return ticket != nil && ticket.AssignedToID != nil && *ticket.AssignedToID == actorID
	default:
		return false
	}
}
