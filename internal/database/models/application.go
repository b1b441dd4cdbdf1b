package models

import "github.com/google/uuid"

// RentalApplication tracks a tenant's payment setup for one property. The
// three flags are the persisted wizard state; the current step is always
// derived from them (billing.ResumeStep), never stored.
type RentalApplication struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;index;not null" json:"property_id"`

	HasCheckingAccount  bool `gorm:"not null;default:false" json:"has_checking_account"`
	SecurityDepositPaid bool `gorm:"not null;default:false" json:"security_deposit_paid"`
	HasCreditCard       bool `gorm:"not null;default:false" json:"has_credit_card"`

	// Encrypted processor reference for the attached bank account
	// (id + masked account number + holder name).
	BankAccountRef string `json:"-"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"-"`
}

func (RentalApplication) TableName() string {
	return "rental_applications"
}
