package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/lindenpm/linden/internal/database/models"
)

// Task type names
const (
	TypeRequestReceivedEmail = "email:request_received"
	TypeStatusChangedEmail   = "email:status_changed"
	TypePasswordResetEmail   = "email:password_reset"
	TypeRetentionPurge       = "cleanup:retention_purge"
)

// RequestReceivedPayload contains the data for a confirmation email task
type RequestReceivedPayload struct {
	RequestID   uuid.UUID `json:"request_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
}

func NewRequestReceivedTask(payload RequestReceivedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRequestReceivedEmail, data), nil
}

// StatusChangedPayload contains the data for a status-change email task
type StatusChangedPayload struct {
	RequestID uuid.UUID            `json:"request_id"`
	FullName  string               `json:"full_name"`
	Email     string               `json:"email"`
	OldStatus models.RequestStatus `json:"old_status"`
	NewStatus models.RequestStatus `json:"new_status"`
}

func NewStatusChangedTask(payload StatusChangedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStatusChangedEmail, data), nil
}

// PasswordResetPayload contains the data for a password-reset email task.
// Token is the raw reset token; only its hash is in the database.
type PasswordResetPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func NewPasswordResetTask(payload PasswordResetPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePasswordResetEmail, data), nil
}

// RetentionPurgePayload is empty - the handler derives the cutoff from config
type RetentionPurgePayload struct{}

func NewRetentionPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeRetentionPurge, nil)
}
