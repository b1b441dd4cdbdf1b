package models

import "github.com/google/uuid"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodACH  PaymentMethod = "ach"
	PaymentMethodCard PaymentMethod = "card"
)

type PaymentKind string

const (
	PaymentKindRent        PaymentKind = "rent"
	PaymentKindDeposit     PaymentKind = "deposit"
	PaymentKindFee         PaymentKind = "fee"
	PaymentKindLateFee     PaymentKind = "late-fee"
	PaymentKindMaintenance PaymentKind = "maintenance"
)

// Payment records one charge. Status moves via the processor webhook or the
// synchronous confirmation of a confirm-on-create intent.
type Payment struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	PropertyID *uuid.UUID `gorm:"type:uuid;index" json:"property_id,omitempty"`

	AmountCents int64         `gorm:"not null" json:"amount_cents"`
	Kind        PaymentKind   `gorm:"not null" json:"kind"`
	Status      PaymentStatus `gorm:"not null;index;default:'pending'" json:"status"`
	Method      PaymentMethod `gorm:"not null" json:"method"`

	StripePaymentIntentID string `gorm:"index" json:"-"`

	DueAt  int64 `json:"due_at,omitempty"`
	PaidAt int64 `json:"paid_at,omitempty"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
