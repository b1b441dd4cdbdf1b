package tasks

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/lindenpm/linden/internal/database/models"
)

// QueueNotifier turns request events into queued email tasks. Delivery is
// asynchronous; a failed enqueue surfaces to the caller, which logs it and
// moves on.
type QueueNotifier struct {
	client *asynq.Client
}

func NewQueueNotifier(client *asynq.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

func (n *QueueNotifier) RequestReceived(ctx context.Context, req *models.ManagerRequest) error {
	task, err := NewRequestReceivedTask(RequestReceivedPayload{
		RequestID:   req.ID,
		FullName:    req.FullName,
		Email:       req.Email,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue("default"))
	return err
}

func (n *QueueNotifier) StatusChanged(ctx context.Context, req *models.ManagerRequest, oldStatus models.RequestStatus) error {
	task, err := NewStatusChangedTask(StatusChangedPayload{
		RequestID: req.ID,
		FullName:  req.FullName,
		Email:     req.Email,
		OldStatus: oldStatus,
		NewStatus: req.Status,
	})
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue("default"))
	return err
}

// PasswordReset enqueues the reset email on the critical queue so logins are
// not stuck behind bulk notifications.
func (n *QueueNotifier) PasswordReset(ctx context.Context, name, email, token string) error {
	task, err := NewPasswordResetTask(PasswordResetPayload{Name: name, Email: email, Token: token})
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue("critical"))
	return err
}
