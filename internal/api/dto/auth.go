package dto

import (
	"github.com/lindenpm/linden/internal/api/validation"
	"github.com/lindenpm/linden/internal/database/models"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
	Address  string `json:"address,omitempty"`
	// OwnerName is the aggregate name for property-owner signups.
	OwnerName string `json:"owner_name,omitempty"`
}

func (r SignupRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email format is invalid"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if !models.ValidUserType(r.UserType) {
		errors["user_type"] = "User type must be tenant, property-owner or manager"
	}
	if models.UserType(r.UserType) == models.UserTypePropertyOwner && r.OwnerName == "" {
		errors["owner_name"] = "Owner name is required for property-owner accounts"
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type GoogleLoginRequest struct {
	Code string `json:"code"`
}

func (r GoogleLoginRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Code == "" {
		errors["code"] = "Authorization code is required"
	}
	return errors
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (r PasswordResetRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email format is invalid"
	}
	return errors
}

type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r PasswordResetConfirm) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Token == "" {
		errors["token"] = "Token is required"
	}
	if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	return errors
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	UserType           string `json:"user_type"`
	VerificationStatus string `json:"verification_status"`
	Address            string `json:"address,omitempty"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:                 u.ID.String(),
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		UserType:           string(u.UserType),
		VerificationStatus: string(u.VerificationStatus),
		Address:            u.Address,
	}
}
