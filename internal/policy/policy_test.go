package policy

import (
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestReadScope(t *testing.T) {
	cases := []struct {
		role domain.UserRole
		want Scope
	}{
		{domain.RoleUser, ScopeOwn},
		{domain.RoleSupportAgent, ScopeAssigned},
		{domain.RoleAdmin, ScopeAll},
		{domain.UserRole("INTERN"), ScopeNone},
		{domain.UserRole(""), ScopeNone},
	}
	for _, tc := range cases {
		if got := ReadScope(tc.role); got != tc.want {
			t.Errorf("ReadScope(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestContentScope(t *testing.T) {
	cases := []struct {
		role domain.UserRole
		want Scope
	}{
		{domain.RoleUser, ScopeOwn},
		{domain.RoleSupportAgent, ScopeAll},
		{domain.RoleAdmin, ScopeAll},
		{domain.UserRole("INTERN"), ScopeNone},
	}
	for _, tc := range cases {
		if got := ContentScope(tc.role); got != tc.want {
			t.Errorf("ContentScope(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestDeleteScope(t *testing.T) {
	cases := []struct {
		role domain.UserRole
		want Scope
	}{
		{domain.RoleUser, ScopeOwn},
		{domain.RoleSupportAgent, ScopeNone},
		{domain.RoleAdmin, ScopeAll},
		{domain.UserRole("INTERN"), ScopeNone},
	}
	for _, tc := range cases {
		if got := DeleteScope(tc.role); got != tc.want {
			t.Errorf("DeleteScope(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestRoleCapabilities(t *testing.T) {
	if !CanCreateTicket(domain.RoleUser) || !CanCreateTicket(domain.RoleAdmin) {
		t.Error("users and admins must be able to create tickets")
	}
	if CanCreateTicket(domain.RoleSupportAgent) {
		t.Error("support agents must not create tickets")
	}

	if CanUpdateStatus(domain.RoleUser) {
		t.Error("users must not update status")
	}
	if !CanUpdateStatus(domain.RoleSupportAgent) || !CanUpdateStatus(domain.RoleAdmin) {
		t.Error("staff must update status")
	}

	if CanAssign(domain.RoleUser) || CanAssign(domain.UserRole("INTERN")) {
		t.Error("only staff may assign")
	}
}

func TestCanReassign(t *testing.T) {
	self := "agent-1"
	other := "agent-2"

	unassigned := &domain.Ticket{}
	mine := &domain.Ticket{AssignedToID: &self}
	theirs := &domain.Ticket{AssignedToID: &other}

	if !CanReassign(domain.RoleAdmin, "anyone", unassigned) {
		t.Error("admin must assign unassigned tickets")
	}
	if !CanReassign(domain.RoleAdmin, "anyone", theirs) {
		t.Error("admin must reassign any ticket")
	}

	if CanReassign(domain.RoleSupportAgent, self, unassigned) {
		t.Error("agent must not claim unassigned tickets")
	}
	if !CanReassign(domain.RoleSupportAgent, self, mine) {
		t.Error("agent must hand over their own ticket")
	}
	if CanReassign(domain.RoleSupportAgent, self, theirs) {
		t.Error("agent must not reassign another agent's ticket")
	}

	if CanReassign(domain.RoleUser, self, mine) {
		t.Error("users must never assign")
	}
	if CanReassign(domain.RoleSupportAgent, self, nil) {
		t.Error("nil ticket must be denied")
	}
}
