package models

import "github.com/google/uuid"

// PropertyOwner is the aggregate root: it exclusively owns its properties
// and member entries, which are only ever appended through the aggregate.
type PropertyOwner struct {
	Base
	Name    string `gorm:"uniqueIndex;not null" json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	Properties []Property    `gorm:"foreignKey:OwnerID" json:"properties,omitempty"`
	Members    []OwnerMember `gorm:"foreignKey:OwnerID" json:"members,omitempty"`
}

func (PropertyOwner) TableName() string {
	return "property_owners"
}

// OwnerMember links a user account to the owner aggregate it belongs to.
type OwnerMember struct {
	Base
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Role    string    `gorm:"default:'member'" json:"role"` // primary, member

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (OwnerMember) TableName() string {
	return "owner_members"
}
