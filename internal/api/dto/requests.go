package dto

import (
	"github.com/lindenpm/linden/internal/api/validation"
	"github.com/lindenpm/linden/internal/database/models"
)

type CreateRequestRequest struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Description      string `json:"description"`
	Message          string `json:"message,omitempty"`
	RequiresApproval bool   `json:"requires_approval,omitempty"`
}

func (r CreateRequestRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.FullName == "" {
		errors["full_name"] = "Full name is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email format is invalid"
	}
	if r.Phone != "" && !validation.IsValidPhone(r.Phone) {
		errors["phone"] = "Phone format is invalid"
	}
	if r.Address == "" {
		errors["address"] = "Address is required"
	}
	if r.Description == "" {
		errors["description"] = "Description is required"
	} else if len(r.Description) > 4000 {
		errors["description"] = "Description must be at most 4000 characters"
	}

	return errors
}

// UpdateRequestRequest is a partial update: each group is applied only when
// its fields are present, and status and approval can change independently.
type UpdateRequestRequest struct {
	Status           *string `json:"status,omitempty"`
	AdminNotes       string  `json:"admin_notes,omitempty"`
	FinishedImageURL string  `json:"finished_image_url,omitempty"`

	ApprovalStatus *string `json:"approval_status,omitempty"`
	ApprovedBy     string  `json:"approved_by,omitempty"`
}

func (r UpdateRequestRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Status == nil && r.ApprovalStatus == nil && r.AdminNotes == "" && r.FinishedImageURL == "" {
		errors["body"] = "Nothing to update"
	}
	if r.Status != nil && !models.ValidRequestStatus(*r.Status) {
		errors["status"] = "Status must be pending, working, finished or rejected"
	}
	if r.ApprovalStatus != nil && !models.ValidApprovalStatus(*r.ApprovalStatus) {
		errors["approval_status"] = "Approval status must be approved or declined"
	}

	return errors
}

type CleanupResponse struct {
	DeletedCount int64 `json:"deleted_count"`
	DryRun       bool  `json:"dry_run"`
}
