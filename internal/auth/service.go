package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/pkg/crypto"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrOwnerExists        = errors.New("property owner name already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
)

const resetTokenTTL = time.Hour

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
	UserType models.UserType
	Address  string
	// OwnerName is required for property-owner signups; the aggregate is
	// created alongside the account.
	OwnerName string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:              input.Email,
		PasswordHash:       hash,
		Name:               input.Name,
		Role:               "user",
		UserType:           input.UserType,
		VerificationStatus: models.VerificationPending,
		Address:            input.Address,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if input.UserType != models.UserTypePropertyOwner {
			return nil
		}

		// Owner signup creates the aggregate and its first member entry.
		var dup models.PropertyOwner
		if err := tx.Where("name = ?", input.OwnerName).First(&dup).Error; err == nil {
			return ErrOwnerExists
		}

		owner := models.PropertyOwner{
			Name:    input.OwnerName,
			Email:   input.Email,
			Address: input.Address,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		member := models.OwnerMember{
			OwnerID: owner.ID,
			UserID:  user.ID,
			Name:    input.Name,
			Email:   input.Email,
			Role:    "primary",
		}
		return tx.Create(&member).Error
	})

	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth accounts have no password hash and cannot log in with one.
	if user.PasswordHash == "" || !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

// LoginOAuth finds or creates the account for a verified OAuth identity.
// OAuth users carry no password hash.
func (s *Service) LoginOAuth(ctx context.Context, email, name string) (*AuthResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:              email,
			Name:               name,
			Role:               "user",
			UserType:           models.UserTypeTenant,
			VerificationStatus: models.VerificationPending,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateAddress(ctx context.Context, id uuid.UUID, address string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("address", address)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PromoteToAdmin flips role on the account matching email. The caller is
// responsible for checking the admin setup key.
func (s *Service) PromoteToAdmin(ctx context.Context, email string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("role", "admin")
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RequestPasswordReset stores a hashed one-hour token and returns the raw
// token for the mailer. Unknown emails return ErrUserNotFound; the handler
// responds 200 either way to avoid account enumeration.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	token, err := crypto.GenerateRandomString(48)
	if err != nil {
		return nil, "", err
	}

	err = s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_token_hash":    hashResetToken(token),
		"reset_token_expires": time.Now().Add(resetTokenTTL).Unix(),
	}).Error
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expires > ?", hashResetToken(token), time.Now().Unix()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password_hash":       hash,
		"reset_token_hash":    "",
		"reset_token_expires": 0,
	}).Error
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
