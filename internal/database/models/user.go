package models

type UserType string

const (
	UserTypeTenant        UserType = "tenant"
	UserTypePropertyOwner UserType = "property-owner"
	UserTypeManager       UserType = "manager"
)

func ValidUserType(t string) bool {
	switch UserType(t) {
	case UserTypeTenant, UserTypePropertyOwner, UserTypeManager:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"` // empty for OAuth accounts
	Name         string `json:"name"`
	Role         string `gorm:"default:'user'" json:"role"` // admin, user
	UserType     UserType `gorm:"not null;default:'tenant'" json:"user_type"`

	VerificationStatus VerificationStatus `gorm:"not null;default:'pending'" json:"verification_status"`

	// External payment-processor customer reference
	StripeCustomerID string `gorm:"index" json:"-"`

	Address string `json:"address,omitempty"`

	// Password reset (hash of the token, never the token itself)
	ResetTokenHash    string `json:"-"`
	ResetTokenExpires int64  `json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
