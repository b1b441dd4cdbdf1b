package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/pkg/crypto"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("rental application not found")
	ErrPropertyNotFound    = errors.New("property not found")
	ErrStepOutOfOrder      = errors.New("payment setup step out of order")
)

// SetupService drives the payment-setup wizard. Each step persists its flag
// only after the processor call succeeds; a failure mid-flow leaves partial
// state at the processor and the flow is resumed, not rolled back.
type SetupService struct {
	db        *gorm.DB
	processor Processor
	encryptor *crypto.Encryptor
	logger    *slog.Logger
}

func NewSetupService(db *gorm.DB, processor Processor, encryptor *crypto.Encryptor, logger *slog.Logger) *SetupService {
	return &SetupService{db: db, processor: processor, encryptor: encryptor, logger: logger}
}

// CreateApplication starts (or resumes) payment setup for a tenant/property
// pair. An existing application for the pair is returned as-is so a reload
// never forks the flow.
func (s *SetupService) CreateApplication(ctx context.Context, userID, propertyID uuid.UUID) (*models.RentalApplication, error) {
	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	var app models.RentalApplication
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		First(&app).Error
	if err == nil {
		return &app, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	app = models.RentalApplication{UserID: userID, PropertyID: propertyID}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *SetupService) GetApplication(ctx context.Context, id uuid.UUID) (*models.RentalApplication, error) {
	var app models.RentalApplication
	if err := s.db.WithContext(ctx).First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// AddCheckingAccount runs step one: create the ACH payment method at the
// processor. A duplicate bank account at the processor counts as success and
// the wizard advances exactly one step.
func (s *SetupService) AddCheckingAccount(ctx context.Context, appID uuid.UUID, in BankAccountInput) (SetupStep, error) {
	app, err := s.GetApplication(ctx, appID)
	if err != nil {
		return 0, err
	}
	if app.HasCheckingAccount {
		return ResumeStep(app), nil
	}

	user, err := s.userFor(ctx, app)
	if err != nil {
		return 0, err
	}

	customerID, err := s.processor.EnsureCustomer(ctx, user.StripeCustomerID, user.Email, user.Name)
	if err != nil {
		return 0, err
	}
	if customerID != user.StripeCustomerID {
		if err := s.db.WithContext(ctx).Model(user).Update("stripe_customer_id", customerID).Error; err != nil {
			return 0, err
		}
	}

	updates := map[string]interface{}{"has_checking_account": true}

	ba, err := s.processor.AttachBankAccount(ctx, customerID, in)
	switch {
	case errors.Is(err, ErrBankAccountExists):
		s.logger.Info("bank account already on file, advancing", "application_id", app.ID)
	case err != nil:
		return 0, err
	default:
		ref, err := s.encryptor.EncryptString(fmt.Sprintf("%s|****%s|%s", ba.ID, ba.Last4, ba.HolderName))
		if err != nil {
			return 0, fmt.Errorf("encrypting bank reference: %w", err)
		}
		updates["bank_account_ref"] = ref
	}

	if err := s.db.WithContext(ctx).Model(app).Updates(updates).Error; err != nil {
		return 0, err
	}
	return StepDeposit, nil
}

// ChargeDeposit runs step two: charge the property's rent amount as the
// security deposit over the just-attached ACH method. A processor failure
// leaves the flags untouched; the wizard reports step one again.
func (s *SetupService) ChargeDeposit(ctx context.Context, appID uuid.UUID) (SetupStep, *models.Payment, error) {
	app, err := s.GetApplication(ctx, appID)
	if err != nil {
		return 0, nil, err
	}
	if !app.HasCheckingAccount {
		return 0, nil, ErrStepOutOfOrder
	}
	if app.SecurityDepositPaid {
		return ResumeStep(app), nil, nil
	}

	user, err := s.userFor(ctx, app)
	if err != nil {
		return 0, nil, err
	}

	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, app.PropertyID).Error; err != nil {
		return 0, nil, fmt.Errorf("loading property: %w", err)
	}

	result, err := s.processor.ChargeACH(ctx, user.StripeCustomerID, property.RentCents,
		"Security deposit for "+property.Name)
	if err != nil {
		return 0, nil, err
	}

	payment := models.Payment{
		UserID:                user.ID,
		PropertyID:            &property.ID,
		AmountCents:           property.RentCents,
		Kind:                  models.PaymentKindDeposit,
		Method:                models.PaymentMethodACH,
		Status:                models.PaymentStatusPending,
		StripePaymentIntentID: result.IntentID,
	}
	if result.Succeeded {
		payment.Status = models.PaymentStatusPaid
		payment.PaidAt = time.Now().Unix()
	}

	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return 0, nil, err
	}
	if err := s.db.WithContext(ctx).Model(app).Update("security_deposit_paid", true).Error; err != nil {
		return 0, nil, err
	}

	return StepCard, &payment, nil
}

// AddCreditCard runs step three with a client-side token; raw card data
// never transits this server.
func (s *SetupService) AddCreditCard(ctx context.Context, appID uuid.UUID, cardToken string) (SetupStep, error) {
	app, err := s.GetApplication(ctx, appID)
	if err != nil {
		return 0, err
	}
	if !app.HasCheckingAccount || !app.SecurityDepositPaid {
		return 0, ErrStepOutOfOrder
	}
	if app.HasCreditCard {
		return StepComplete, nil
	}

	user, err := s.userFor(ctx, app)
	if err != nil {
		return 0, err
	}

	if _, err := s.processor.AttachCard(ctx, user.StripeCustomerID, cardToken); err != nil {
		return 0, err
	}

	if err := s.db.WithContext(ctx).Model(app).Update("has_credit_card", true).Error; err != nil {
		return 0, err
	}
	return StepComplete, nil
}

func (s *SetupService) userFor(ctx context.Context, app *models.RentalApplication) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, app.UserID).Error; err != nil {
		return nil, fmt.Errorf("loading applicant: %w", err)
	}
	return &user, nil
}
