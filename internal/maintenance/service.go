package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound    = errors.New("manager request not found")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrApprovalRequired   = errors.New("owner approval required before work starts")
	ErrRequestDeclined    = errors.New("declined request can only be rejected")
)

// Notifier dispatches request emails. The production implementation enqueues
// asynq tasks; failures are logged here and never abort the primary write.
type Notifier interface {
	RequestReceived(ctx context.Context, req *models.ManagerRequest) error
	StatusChanged(ctx context.Context, req *models.ManagerRequest, oldStatus models.RequestStatus) error
}

type SubmitInput struct {
	FullName         string
	Email            string
	Phone            string
	Address          string
	Description      string
	Message          string
	RequiresApproval bool
	Image            *ImageUpload
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Service struct {
	db       *gorm.DB
	blobs    storage.BlobStore
	notifier Notifier
	logger   *slog.Logger
}

func NewService(db *gorm.DB, blobs storage.BlobStore, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{db: db, blobs: blobs, notifier: notifier, logger: logger}
}

// Submit runs intake in the required order: upload, persist, notify. An
// upload failure fails the whole submission; a notification failure only
// gets logged.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*models.ManagerRequest, error) {
	var imageURL string
	if input.Image != nil {
		key := fmt.Sprintf("requests/problem/%s%s", uuid.New(), path.Ext(input.Image.Filename))
		url, err := s.blobs.Put(ctx, key, input.Image.ContentType, input.Image.Body, input.Image.Size)
		if err != nil {
			return nil, fmt.Errorf("uploading problem image: %w", err)
		}
		imageURL = url
	}

	req := models.ManagerRequest{
		FullName:         input.FullName,
		Email:            input.Email,
		Phone:            input.Phone,
		Address:          input.Address,
		Description:      input.Description,
		Message:          input.Message,
		Status:           models.RequestStatusPending,
		RequiresApproval: input.RequiresApproval,
		ProblemImageURL:  imageURL,
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, err
	}

	if err := s.notifier.RequestReceived(ctx, &req); err != nil {
		s.logger.Error("request notification failed", "request_id", req.ID, "error", err)
	}

	return &req, nil
}

type ListFilters struct {
	Status string
	Email  string
}

func (s *Service) List(ctx context.Context, filters ListFilters, offset, limit int) ([]models.ManagerRequest, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ManagerRequest{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Email != "" {
		query = query.Where("email = ?", filters.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.ManagerRequest
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.ManagerRequest, error) {
	var req models.ManagerRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

type StatusUpdate struct {
	Status           models.RequestStatus
	AdminNotes       string
	FinishedImageURL string
}

// UpdateStatus writes a validated status change. The status-change email is
// attempted only when the status actually changed, and its failure never
// reverts the write.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*models.ManagerRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := req.Status
	if !CanTransition(oldStatus, update.Status) {
		return nil, ErrInvalidTransition
	}

	// Owner gating: work cannot start on an unapproved request, and a
	// declined request can only be closed out as rejected.
	if update.Status == models.RequestStatusWorking && req.RequiresApproval {
		if req.ApprovalStatus == models.ApprovalDeclined {
			return nil, ErrRequestDeclined
		}
		if req.ApprovalStatus != models.ApprovalApproved {
			return nil, ErrApprovalRequired
		}
	}

	updates := map[string]interface{}{"status": update.Status}
	if update.AdminNotes != "" {
		updates["admin_notes"] = update.AdminNotes
	}
	if update.FinishedImageURL != "" {
		updates["finished_image_url"] = update.FinishedImageURL
	}

	if err := s.db.WithContext(ctx).Model(req).Updates(updates).Error; err != nil {
		return nil, err
	}

	if req.Status != oldStatus {
		if err := s.notifier.StatusChanged(ctx, req, oldStatus); err != nil {
			s.logger.Error("status notification failed", "request_id", req.ID, "error", err)
		}
	}

	return req, nil
}

// SetApproval writes the owner-approval dimension. It is independent of the
// workflow status; gating happens when work is started, not here.
func (s *Service) SetApproval(ctx context.Context, id uuid.UUID, status models.ApprovalStatus, approvedBy string) (*models.ManagerRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"approval_status": status,
		"approved_by":     approvedBy,
		"approval_date":   time.Now().Unix(),
	}
	if err := s.db.WithContext(ctx).Model(req).Updates(updates).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.ManagerRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// PreviewExpired lists soft-deleted requests past the retention window
// without touching them.
func (s *Service) PreviewExpired(ctx context.Context, retention time.Duration) ([]models.ManagerRequest, error) {
	var requests []models.ManagerRequest
	err := s.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", time.Now().Add(-retention)).
		Find(&requests).Error
	return requests, err
}

// PurgeExpired hard-deletes the same set. Idempotent: a second run with no
// newly expired records deletes zero rows.
func (s *Service) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", time.Now().Add(-retention)).
		Delete(&models.ManagerRequest{})
	return res.RowsAffected, res.Error
}
