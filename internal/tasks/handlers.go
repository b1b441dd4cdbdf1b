package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/lindenpm/linden/internal/mailer"
	"github.com/lindenpm/linden/internal/maintenance"
)

type Handler struct {
	logger      *slog.Logger
	mailer      mailer.Mailer
	maintenance *maintenance.Service
	opsName     string
	opsAddress  string
	retention   time.Duration
}

func NewHandler(logger *slog.Logger, m mailer.Mailer, svc *maintenance.Service, opsName, opsAddress string, retention time.Duration) *Handler {
	return &Handler{
		logger:      logger,
		mailer:      m,
		maintenance: svc,
		opsName:     opsName,
		opsAddress:  opsAddress,
		retention:   retention,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeRequestReceivedEmail, h.HandleRequestReceivedEmail)
	mux.HandleFunc(TypeStatusChangedEmail, h.HandleStatusChangedEmail)
	mux.HandleFunc(TypePasswordResetEmail, h.HandlePasswordResetEmail)
	mux.HandleFunc(TypeRetentionPurge, h.HandleRetentionPurge)
}

// HandleRequestReceivedEmail notifies the operations inbox about a new
// maintenance request.
func (h *Handler) HandleRequestReceivedEmail(ctx context.Context, t *asynq.Task) error {
	var payload RequestReceivedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	req, err := h.maintenance.Get(ctx, payload.RequestID)
	if err != nil {
		if errors.Is(err, maintenance.ErrRequestNotFound) {
			// Deleted before the queue caught up; nothing to announce.
			h.logger.Info("skipping email for deleted request", "request_id", payload.RequestID)
			return nil
		}
		return err
	}

	msg, err := mailer.RequestReceived(mailer.RequestReceivedData{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Description: req.Description,
		Message:     req.Message,
		ImageURL:    req.ProblemImageURL,
	})
	if err != nil {
		return err
	}
	msg.ToName = h.opsName
	msg.ToAddress = h.opsAddress

	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending request notification: %w", err)
	}

	h.logger.Info("sent request notification", "request_id", req.ID)
	return nil
}

// HandleStatusChangedEmail tells the requester their request moved.
func (h *Handler) HandleStatusChangedEmail(ctx context.Context, t *asynq.Task) error {
	var payload StatusChangedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	req, err := h.maintenance.Get(ctx, payload.RequestID)
	if err != nil {
		if errors.Is(err, maintenance.ErrRequestNotFound) {
			h.logger.Info("skipping email for deleted request", "request_id", payload.RequestID)
			return nil
		}
		return err
	}

	msg, err := mailer.StatusChanged(mailer.StatusChangedData{
		FullName:         req.FullName,
		Address:          req.Address,
		OldStatus:        string(payload.OldStatus),
		NewStatus:        string(payload.NewStatus),
		AdminNotes:       req.AdminNotes,
		FinishedImageURL: req.FinishedImageURL,
	})
	if err != nil {
		return err
	}
	msg.ToName = req.FullName
	msg.ToAddress = req.Email

	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending status notification: %w", err)
	}

	h.logger.Info("sent status notification",
		"request_id", req.ID,
		"old_status", payload.OldStatus,
		"new_status", payload.NewStatus,
	)
	return nil
}

func (h *Handler) HandlePasswordResetEmail(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	msg, err := mailer.PasswordReset(payload.Name, payload.Token)
	if err != nil {
		return err
	}
	msg.ToName = payload.Name
	msg.ToAddress = payload.Email

	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending password reset: %w", err)
	}
	return nil
}

// HandleRetentionPurge hard-deletes soft-deleted requests past the retention
// window. Safe to run any number of times.
func (h *Handler) HandleRetentionPurge(ctx context.Context, t *asynq.Task) error {
	deleted, err := h.maintenance.PurgeExpired(ctx, h.retention)
	if err != nil {
		return fmt.Errorf("retention purge: %w", err)
	}
	h.logger.Info("retention purge completed", "deleted", deleted, "retention", h.retention)
	return nil
}
