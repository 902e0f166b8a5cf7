package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type commentFixture struct {
	*ticketFixture
	comments *fakeCommentRepo
	service  *CommentService
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	base := newTicketFixture(t)
	svc := NewCommentService(CommentDependencies{
		CommentRepo: base.comments,
		TicketRepo:  base.tickets,
		UserRepo:    base.users,
		AuditRepo:   base.audit,
		TxManager:   &fakeTxManager{},
	})
	return &commentFixture{ticketFixture: base, comments: base.comments, service: svc}
}

func TestCreateCommentAlwaysAudited(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)

	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "tried rebooting, no luck")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	entries := f.audit.byAction(domain.ActionCommentAdded)
	if len(entries) != 1 {
		t.Fatalf("COMMENT_ADDED entries = %d, want 1", len(entries))
	}
	if entries[0].CommentID == nil || *entries[0].CommentID != comment.ID {
		t.Errorf("audit comment id = %v, want %s", entries[0].CommentID, comment.ID)
	}
	if entries[0].NewValue != comment.Content {
		t.Errorf("audit new value = %q, want comment content", entries[0].NewValue)
	}
}

func TestCreateCommentForeignTicket(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)

	_, err := f.service.Create(context.Background(), ticket.ID, f.other.ID, f.other.Role, "drive-by comment")
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("code = %s, want NOT_FOUND", code)
	}
}

func TestCreateCommentAgentAnyTicket(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)

	if _, err := f.service.Create(context.Background(), ticket.ID, f.agent.ID, f.agent.Role, "looking into this"); err != nil {
		t.Fatalf("agent comment: %v", err)
	}
}

func TestAgentReadsCommentsOnAnyTicket(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)
	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "anyone home?")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	// The ticket is not assigned to the agent; comment access still reaches
	// any ticket for staff.
	comments, err := f.service.ListForTicket(context.Background(), ticket.ID, f.agent.ID, f.agent.Role)
	if err != nil {
		t.Fatalf("agent list on unassigned ticket: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("comments = %d, want 1", len(comments))
	}

	got, err := f.service.Get(context.Background(), comment.ID, ticket.ID, f.agent.ID, f.agent.Role)
	if err != nil {
		t.Fatalf("agent get on unassigned ticket: %v", err)
	}
	if got.ID != comment.ID {
		t.Errorf("comment id = %s, want %s", got.ID, comment.ID)
	}
}

func TestRemoveTicketCascadesComments(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)
	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "soon gone")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := f.ticketFixture.service.Remove(context.Background(), ticket.ID, f.user.ID, f.user.Role); err != nil {
		t.Fatalf("remove ticket: %v", err)
	}

	if _, err := f.comments.GetByIDAndTicket(context.Background(), comment.ID, ticket.ID); err == nil {
		t.Error("comment survived ticket removal")
	}
	_, err = f.service.Get(context.Background(), comment.ID, ticket.ID, f.user.ID, f.user.Role)
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("code = %s, want NOT_FOUND", code)
	}
}

func TestUpdateCommentContentPatchAudited(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)
	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "original text")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	createdAt := comment.CreatedAt
	time.Sleep(5 * time.Millisecond)

	newContent := "corrected text"
	updated, err := f.service.Update(context.Background(), comment.ID, ticket.ID, f.user.ID, f.user.Role, CommentPatch{
		Content: &newContent,
	})
	if err != nil {
		t.Fatalf("update comment: %v", err)
	}

	if updated.Content != newContent {
		t.Errorf("content = %q, want %q", updated.Content, newContent)
	}
	if !updated.CreatedAt.After(createdAt) {
		t.Error("timestamp not refreshed by content patch")
	}

	entries := f.audit.byAction(domain.ActionCommentUpdated)
	if len(entries) != 1 {
		t.Fatalf("COMMENT_UPDATED entries = %d, want 1", len(entries))
	}
	if entries[0].OldValue == nil || *entries[0].OldValue != "original text" {
		t.Errorf("old value = %v, want original content", entries[0].OldValue)
	}
	if entries[0].NewValue != newContent {
		t.Errorf("new value = %q, want %q", entries[0].NewValue, newContent)
	}
}

func TestUpdateCommentEmptyPatchNoSaveNoAudit(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)
	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "unchanged")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	updated, err := f.service.Update(context.Background(), comment.ID, ticket.ID, f.user.ID, f.user.Role, CommentPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}

	if updated.Content != "unchanged" {
		t.Errorf("content = %q, want unchanged", updated.Content)
	}
	if !updated.CreatedAt.Equal(comment.CreatedAt) {
		t.Error("timestamp changed on empty patch")
	}
	if entries := f.audit.byAction(domain.ActionCommentUpdated); len(entries) != 0 {
		t.Errorf("COMMENT_UPDATED entries = %d, want 0", len(entries))
	}
}

func TestUpdateCommentNonAuthor(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)
	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "mine")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	content := "not yours"
	_, err = f.service.Update(context.Background(), comment.ID, ticket.ID, f.admin.ID, f.admin.Role, CommentPatch{Content: &content})
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("code = %s, want NOT_FOUND", code)
	}
}

func TestRemoveCommentRoles(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)

	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "to delete")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if err := f.service.Remove(context.Background(), comment.ID, ticket.ID, f.user.ID, f.user.Role); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	comment, err = f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "admin target")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if err := f.service.Remove(context.Background(), comment.ID, ticket.ID, f.admin.ID, f.admin.Role); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestCommentAuditLogsAuthorOnly(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)
	comment, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, "audited")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	entries, err := f.service.AuditLogs(context.Background(), comment.ID, ticket.ID, f.user.ID)
	if err != nil {
		t.Fatalf("author audit read: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}

	_, err = f.service.AuditLogs(context.Background(), comment.ID, ticket.ID, f.admin.ID)
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("non-author code = %s, want NOT_FOUND", code)
	}
}

func TestListCommentsOldestFirst(t *testing.T) {
	f := newCommentFixture(t)
	ticket := f.createTicket(t, f.user)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := f.service.Create(context.Background(), ticket.ID, f.user.ID, f.user.Role, text); err != nil {
			t.Fatalf("create comment %q: %v", text, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	comments, err := f.service.ListForTicket(context.Background(), ticket.ID, f.user.ID, f.user.Role)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("comments = %d, want 3", len(comments))
	}
	if comments[0].Content != "first" || comments[2].Content != "third" {
		t.Errorf("order = [%s %s %s], want oldest first", comments[0].Content, comments[1].Content, comments[2].Content)
	}
}
