package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/api/handlers"
	"github.com/lindenpm/linden/internal/api/middleware"
	"github.com/lindenpm/linden/internal/billing"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/testutil"
	"github.com/lindenpm/linden/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type paymentFixture struct {
	router    *chi.Mux
	db        *gorm.DB
	processor *testutil.FakeProcessor
	user      *models.User
	property  *models.Property
	token     string
}

func setupPaymentFixture(t *testing.T) *paymentFixture {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	encryptor, err := crypto.NewEncryptor(key)
	require.NoError(t, err)

	processor := &testutil.FakeProcessor{}
	setup := billing.NewSetupService(db, processor, encryptor, discardLogger())
	handler := handlers.NewPaymentHandler(db, setup)

	jwtService := testutil.CreateTestJWTService()
	user := testutil.CreateTestUser(t, db)
	owner := testutil.CreateTestOwner(t, db)
	property := testutil.CreateTestProperty(t, db, owner)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtService))
		r.Get("/api/v1/applications/{id}", handler.GetApplication)
		r.Get("/api/v1/payments", handler.ListPayments)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUserType(models.UserTypeTenant))
			r.Post("/api/v1/applications", handler.CreateApplication)
			r.Post("/api/v1/applications/{id}/add-checking-account", handler.AddCheckingAccount)
			r.Post("/api/v1/applications/{id}/security-deposit", handler.ChargeDeposit)
			r.Post("/api/v1/applications/{id}/add-credit-card", handler.AddCreditCard)
		})
	})

	return &paymentFixture{
		router:    r,
		db:        db,
		processor: processor,
		user:      user,
		property:  property,
		token:     testutil.GenerateTestToken(t, jwtService, user),
	}
}

func (f *paymentFixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, dto.SetupStepResponse) {
	t.Helper()
	req := testutil.AuthenticatedRequest(t, method, path, body, f.token)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	var step dto.SetupStepResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &step)
	return rr, step
}

func (f *paymentFixture) createApplication(t *testing.T) string {
	t.Helper()
	rr, step := f.do(t, "POST", "/api/v1/applications",
		map[string]string{"property_id": f.property.ID.String()})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotEmpty(t, step.ApplicationID)
	return step.ApplicationID
}

var bankBody = map[string]string{
	"routing_number": "110000000",
	"account_number": "000123456789",
	"holder_name":    "Test Tenant",
}

func TestPaymentHandler_WizardFlow(t *testing.T) {
	f := setupPaymentFixture(t)
	appID := f.createApplication(t)

	// Fresh application starts at step one.
	rr, step := f.do(t, "GET", "/api/v1/applications/"+appID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, step.Step)
	assert.Equal(t, "bank-account", step.StepName)

	rr, step = f.do(t, "POST", "/api/v1/applications/"+appID+"/add-checking-account", bankBody)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, step.Step)

	rr, step = f.do(t, "POST", "/api/v1/applications/"+appID+"/security-deposit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, step.Step)
	assert.NotNil(t, step.Payment)

	rr, step = f.do(t, "POST", "/api/v1/applications/"+appID+"/add-credit-card",
		map[string]string{"token": "tok_visa"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 4, step.Step)
	assert.Equal(t, "complete", step.StepName)

	// The deposit shows up in payment history.
	req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/payments", nil, f.token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data  []models.Payment `json:"data"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.EqualValues(t, 1, list.Total)
	assert.Equal(t, f.property.RentCents, list.Data[0].AmountCents)
	assert.Equal(t, models.PaymentKindDeposit, list.Data[0].Kind)
}

func TestPaymentHandler_StepsOutOfOrder(t *testing.T) {
	f := setupPaymentFixture(t)
	appID := f.createApplication(t)

	rr, _ := f.do(t, "POST", "/api/v1/applications/"+appID+"/security-deposit", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, _ = f.do(t, "POST", "/api/v1/applications/"+appID+"/add-credit-card",
		map[string]string{"token": "tok_visa"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestPaymentHandler_DepositFailureReportsStepOne(t *testing.T) {
	f := setupPaymentFixture(t)
	appID := f.createApplication(t)

	rr, _ := f.do(t, "POST", "/api/v1/applications/"+appID+"/add-checking-account", bankBody)
	require.Equal(t, http.StatusOK, rr.Code)

	f.processor.FailCharge = true
	rr, _ = f.do(t, "POST", "/api/v1/applications/"+appID+"/security-deposit", nil)
	assert.Equal(t, http.StatusPaymentRequired, rr.Code)

	var failure struct {
		Error string `json:"error"`
		Step  int    `json:"step"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &failure))
	assert.Equal(t, 1, failure.Step)
	assert.NotEmpty(t, failure.Error)

	// Flags untouched: resume still reports the deposit step (bank is done).
	rr, step := f.do(t, "GET", "/api/v1/applications/"+appID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, step.Step)
}

func TestPaymentHandler_DuplicateBankAccountAdvances(t *testing.T) {
	f := setupPaymentFixture(t)
	appID := f.createApplication(t)

	f.processor.BankExists = true
	rr, step := f.do(t, "POST", "/api/v1/applications/"+appID+"/add-checking-account", bankBody)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, step.Step, "duplicate at the processor still advances one step")
}

func TestPaymentHandler_WizardIsTenantOnly(t *testing.T) {
	f := setupPaymentFixture(t)

	manager := testutil.CreateTestManager(t, f.db)
	managerToken := testutil.GenerateTestToken(t, testutil.CreateTestJWTService(), manager)

	req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/applications",
		map[string]string{"property_id": f.property.ID.String()}, managerToken)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPaymentHandler_ForeignApplicationForbidden(t *testing.T) {
	f := setupPaymentFixture(t)

	other := testutil.CreateTestUser(t, f.db)
	app := testutil.CreateTestApplication(t, f.db, other, f.property)

	rr, _ := f.do(t, "GET", "/api/v1/applications/"+app.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPaymentHandler_InvalidBankDetails(t *testing.T) {
	f := setupPaymentFixture(t)
	appID := f.createApplication(t)

	body := map[string]string{
		"routing_number": "12345",
		"account_number": "abc",
		"holder_name":    "",
	}
	rr, _ := f.do(t, "POST", "/api/v1/applications/"+appID+"/add-checking-account", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
