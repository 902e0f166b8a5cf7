package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// NotificationWorker observes ticket activity and logs it in notification
// form. It runs in-process off the dispatcher; handlers must stay cheap.
type NotificationWorker struct {
	logger *zap.Logger
}

// NewNotificationWorker builds a worker around the given logger.
func NewNotificationWorker(logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{logger: logger}
}

// Register subscribes the worker's handlers.
func (w *NotificationWorker) Register(disp events.Dispatcher) {
	disp.Subscribe(events.EventTicketCreated, w.onTicketCreated)
	disp.Subscribe(events.EventTicketStatusChanged, w.onStatusChanged)
	disp.Subscribe(events.EventTicketAssigned, w.onTicketAssigned)
	disp.Subscribe(events.EventCommentAdded, w.onCommentAdded)
}

func (w *NotificationWorker) onTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	w.logger.Info("notify: ticket created",
		zap.String("ticket_id", event.TicketID),
		zap.String("creator_id", event.Actor.UserID),
		zap.String("priority", string(payload.Priority)),
	)
	return nil
}

func (w *NotificationWorker) onStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	w.logger.Info("notify: ticket status changed",
		zap.String("ticket_id", event.TicketID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
	)
	return nil
}

func (w *NotificationWorker) onTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	w.logger.Info("notify: ticket assigned",
		zap.String("ticket_id", event.TicketID),
		zap.String("assigned_to", payload.AssignedToID),
		zap.String("assigned_by", payload.AssignedByID),
	)
	return nil
}

func (w *NotificationWorker) onCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}
	w.logger.Info("notify: comment added",
		zap.String("ticket_id", event.TicketID),
		zap.String("comment_id", payload.CommentID),
	)
	return nil
}
