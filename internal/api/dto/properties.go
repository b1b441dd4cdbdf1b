package dto

import (
	"github.com/lindenpm/linden/internal/api/validation"
	"github.com/lindenpm/linden/internal/database/models"
)

type CreateOwnerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (r CreateOwnerRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email format is invalid"
	}
	return errors
}

type AddPropertyRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	SquareFeet int    `json:"square_feet"`
	RentCents  int64  `json:"rent_cents"`
	Status     string `json:"status,omitempty"`
	Address    string `json:"address,omitempty"`
}

func (r AddPropertyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if !models.ValidPropertyType(r.Type) {
		errors["type"] = "Type must be residential, commercial or house"
	}
	if r.RentCents <= 0 {
		errors["rent_cents"] = "Rent must be a positive amount in cents"
	}
	if r.Status != "" && !models.ValidPropertyStatus(r.Status) {
		errors["status"] = "Unknown property status"
	}

	return errors
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

func (r AddMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidUUID(r.UserID) {
		errors["user_id"] = "User ID must be a UUID"
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email format is invalid"
	}
	return errors
}

type UpdatePropertyStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdatePropertyStatusRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !models.ValidPropertyStatus(r.Status) {
		errors["status"] = "Unknown property status"
	}
	return errors
}
