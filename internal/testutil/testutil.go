package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lindenpm/linden/internal/auth"
	"github.com/lindenpm/linden/internal/billing"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/mailer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.PropertyOwner{},
		&models.OwnerMember{},
		&models.Property{},
		&models.ManagerRequest{},
		&models.RentalApplication{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestUser creates a tenant user with a known password
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:              "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash:       hash,
		Name:               "Test Tenant",
		Role:               "user",
		UserType:           models.UserTypeTenant,
		VerificationStatus: models.VerificationPending,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestManager creates a user with the manager role
func CreateTestManager(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	user.Role = "admin"
	user.UserType = models.UserTypeManager
	if err := db.Model(user).Updates(map[string]interface{}{
		"role":      "admin",
		"user_type": models.UserTypeManager,
	}).Error; err != nil {
		t.Fatalf("failed to promote test manager: %v", err)
	}
	return user
}

// CreateTestOwner creates a property owner aggregate
func CreateTestOwner(t *testing.T, db *gorm.DB) *models.PropertyOwner {
	t.Helper()

	owner := &models.PropertyOwner{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name: "Test Owner " + uuid.New().String()[:8],
	}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("failed to create test owner: %v", err)
	}
	return owner
}

// CreateTestProperty creates an available property under the given owner
func CreateTestProperty(t *testing.T, db *gorm.DB, owner *models.PropertyOwner) *models.Property {
	t.Helper()

	property := &models.Property{
		Base: models.Base{
			ID: uuid.New(),
		},
		OwnerID:    owner.ID,
		Name:       "Unit " + uuid.New().String()[:8],
		Type:       models.PropertyTypeResidential,
		SquareFeet: 850,
		RentCents:  150000,
		Status:     models.PropertyStatusAvailable,
		Address:    "42 Test Lane",
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}
	return property
}

// CreateTestRequest creates a pending maintenance request
func CreateTestRequest(t *testing.T, db *gorm.DB) *models.ManagerRequest {
	t.Helper()

	req := &models.ManagerRequest{
		Base: models.Base{
			ID: uuid.New(),
		},
		FullName:    "Test Tenant",
		Email:       "tenant-" + uuid.New().String()[:8] + "@example.com",
		Phone:       "+15555550100",
		Address:     "42 Test Lane",
		Description: "Leaking faucet in the kitchen",
		Status:      models.RequestStatusPending,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create test request: %v", err)
	}
	return req
}

// CreateTestApplication creates a fresh rental application for the pair
func CreateTestApplication(t *testing.T, db *gorm.DB, user *models.User, property *models.Property) *models.RentalApplication {
	t.Helper()

	app := &models.RentalApplication{
		Base: models.Base{
			ID: uuid.New(),
		},
		UserID:     user.ID,
		PropertyID: property.ID,
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// FakeProcessor is an in-memory payment processor for tests. Set the Fail*
// fields to force a step to fail, or BankExists to simulate a duplicate.
type FakeProcessor struct {
	FailAttachBank bool
	FailCharge     bool
	FailCard       bool
	BankExists     bool
	ChargePending  bool

	Customers []string
	Charges   []int64
	Cards     []string
}

func (f *FakeProcessor) EnsureCustomer(ctx context.Context, customerID, email, name string) (string, error) {
	if customerID != "" {
		return customerID, nil
	}
	id := "cus_test_" + uuid.New().String()[:8]
	f.Customers = append(f.Customers, id)
	return id, nil
}

func (f *FakeProcessor) AttachBankAccount(ctx context.Context, customerID string, in billing.BankAccountInput) (*billing.BankAccount, error) {
	if f.FailAttachBank {
		return nil, assertErr("processor rejected bank account")
	}
	if f.BankExists {
		return nil, billing.ErrBankAccountExists
	}
	last4 := in.AccountNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return &billing.BankAccount{
		ID:         "ba_test_" + uuid.New().String()[:8],
		Last4:      last4,
		HolderName: in.HolderName,
	}, nil
}

func (f *FakeProcessor) ChargeACH(ctx context.Context, customerID string, amountCents int64, description string) (*billing.ChargeResult, error) {
	if f.FailCharge {
		return nil, assertErr("charge declined")
	}
	f.Charges = append(f.Charges, amountCents)
	return &billing.ChargeResult{
		IntentID:  "pi_test_" + uuid.New().String()[:8],
		Succeeded: !f.ChargePending,
	}, nil
}

func (f *FakeProcessor) AttachCard(ctx context.Context, customerID, cardToken string) (string, error) {
	if f.FailCard {
		return "", assertErr("card declined")
	}
	f.Cards = append(f.Cards, cardToken)
	return "card_test_" + uuid.New().String()[:8], nil
}

// FakeNotifier records notification calls and optionally fails them.
type FakeNotifier struct {
	Fail bool

	Received      []uuid.UUID
	StatusChanges []uuid.UUID
}

func (f *FakeNotifier) RequestReceived(ctx context.Context, req *models.ManagerRequest) error {
	if f.Fail {
		return assertErr("notifier down")
	}
	f.Received = append(f.Received, req.ID)
	return nil
}

func (f *FakeNotifier) StatusChanged(ctx context.Context, req *models.ManagerRequest, oldStatus models.RequestStatus) error {
	if f.Fail {
		return assertErr("notifier down")
	}
	f.StatusChanges = append(f.StatusChanges, req.ID)
	return nil
}

// FakeMailer records messages instead of sending them.
type FakeMailer struct {
	Fail bool
	Sent []mailer.Message
}

func (f *FakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if f.Fail {
		return assertErr("mailer down")
	}
	f.Sent = append(f.Sent, msg)
	return nil
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
