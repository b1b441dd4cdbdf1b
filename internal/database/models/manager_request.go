package models

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusWorking  RequestStatus = "working"
	RequestStatusFinished RequestStatus = "finished"
	RequestStatusRejected RequestStatus = "rejected"
)

func ValidRequestStatus(s string) bool {
	switch RequestStatus(s) {
	case RequestStatusPending, RequestStatusWorking, RequestStatusFinished, RequestStatusRejected:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDeclined ApprovalStatus = "declined"
)

func ValidApprovalStatus(s string) bool {
	switch ApprovalStatus(s) {
	case ApprovalApproved, ApprovalDeclined:
		return true
	}
	return false
}

// ManagerRequest is a maintenance/service ticket. Requesters are referenced
// by contact info, not by account, so unauthenticated submissions work.
// Soft delete comes from Base.DeletedAt; the retention job hard-deletes
// records whose deletion timestamp is past the retention window.
type ManagerRequest struct {
	Base
	FullName    string `gorm:"not null" json:"full_name"`
	Email       string `gorm:"index;not null" json:"email"`
	Phone       string `json:"phone"`
	Address     string `gorm:"not null" json:"address"`
	Description string `gorm:"not null" json:"description"`
	Message     string `json:"message,omitempty"`

	Status RequestStatus `gorm:"not null;index;default:'pending'" json:"status"`

	// Owner approval is a separate dimension from the workflow status.
	RequiresApproval bool           `json:"requires_approval"`
	ApprovalStatus   ApprovalStatus `gorm:"index" json:"approval_status,omitempty"`
	ApprovedBy       string         `json:"approved_by,omitempty"`
	ApprovalDate     int64          `json:"approval_date,omitempty"`

	ProblemImageURL  string `json:"problem_image_url,omitempty"`
	FinishedImageURL string `json:"finished_image_url,omitempty"`
	AdminNotes       string `json:"admin_notes,omitempty"`
}

func (ManagerRequest) TableName() string {
	return "manager_requests"
}
