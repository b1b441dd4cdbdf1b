package models

import "github.com/google/uuid"

type PropertyType string

const (
	PropertyTypeResidential PropertyType = "residential"
	PropertyTypeCommercial  PropertyType = "commercial"
	PropertyTypeHouse       PropertyType = "house"
)

type PropertyStatus string

const (
	PropertyStatusAvailable     PropertyStatus = "available"
	PropertyStatusRented        PropertyStatus = "rented"
	PropertyStatusUnderRemodel  PropertyStatus = "under-remodel"
	PropertyStatusMaintenance   PropertyStatus = "maintenance"
	PropertyStatusBeingRemodeled PropertyStatus = "being-remodeled"
)

func ValidPropertyType(t string) bool {
	switch PropertyType(t) {
	case PropertyTypeResidential, PropertyTypeCommercial, PropertyTypeHouse:
		return true
	}
	return false
}

func ValidPropertyStatus(s string) bool {
	switch PropertyStatus(s) {
	case PropertyStatusAvailable, PropertyStatusRented, PropertyStatusUnderRemodel,
		PropertyStatusMaintenance, PropertyStatusBeingRemodeled:
		return true
	}
	return false
}

// Property has no lifecycle outside its parent owner aggregate.
type Property struct {
	Base
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`

	Name       string         `gorm:"not null" json:"name"`
	Type       PropertyType   `gorm:"not null" json:"type"`
	SquareFeet int            `json:"square_feet"`
	RentCents  int64          `json:"rent_cents"` // monthly rent, also the security deposit amount
	Status     PropertyStatus `gorm:"not null;index;default:'available'" json:"status"`
	Address    string         `json:"address"`

	Owner *PropertyOwner `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Property) TableName() string {
	return "properties"
}
