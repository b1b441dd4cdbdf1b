package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/api/middleware"
	"github.com/lindenpm/linden/internal/billing"
	"github.com/lindenpm/linden/internal/database/models"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	db    *gorm.DB
	setup *billing.SetupService
}

func NewPaymentHandler(db *gorm.DB, setup *billing.SetupService) *PaymentHandler {
	return &PaymentHandler{db: db, setup: setup}
}

// CreateApplication starts payment setup for the signed-in tenant.
func (h *PaymentHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	userID := middleware.GetUserID(r.Context())
	app, err := h.setup.CreateApplication(r.Context(), userID, uuid.MustParse(req.PropertyID))
	if err != nil {
		if errors.Is(err, billing.ErrPropertyNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Property not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create application"})
		return
	}

	writeJSON(w, http.StatusCreated, h.stepResponse(app, billing.ResumeStep(app), nil))
}

// GetApplication returns the application with its derived wizard position,
// so a reloaded client resumes exactly where it left off.
func (h *PaymentHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwnApplication(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.stepResponse(app, billing.ResumeStep(app), nil))
}

func (h *PaymentHandler) AddCheckingAccount(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwnApplication(w, r)
	if !ok {
		return
	}

	var req dto.AddCheckingAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	step, err := h.setup.AddCheckingAccount(r.Context(), app.ID, billing.BankAccountInput{
		RoutingNumber: req.RoutingNumber,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
	})
	if err != nil {
		h.writeSetupError(w, app, billing.StepBankAccount, err)
		return
	}

	writeJSON(w, http.StatusOK, h.stepResponse(app, step, nil))
}

func (h *PaymentHandler) ChargeDeposit(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwnApplication(w, r)
	if !ok {
		return
	}

	step, payment, err := h.setup.ChargeDeposit(r.Context(), app.ID)
	if err != nil {
		// A failed charge sends the client back to step one so it can
		// retry the whole sequence.
		h.writeSetupError(w, app, billing.StepBankAccount, err)
		return
	}

	writeJSON(w, http.StatusOK, h.stepResponse(app, step, payment))
}

func (h *PaymentHandler) AddCreditCard(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwnApplication(w, r)
	if !ok {
		return
	}

	var req dto.AddCreditCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	step, err := h.setup.AddCreditCard(r.Context(), app.ID, req.Token)
	if err != nil {
		h.writeSetupError(w, app, billing.StepCard, err)
		return
	}

	writeJSON(w, http.StatusOK, h.stepResponse(app, step, nil))
}

// ListPayments returns the signed-in user's payment history.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	pagination := paginationFrom(r)
	userID := middleware.GetUserID(r.Context())

	query := h.db.WithContext(r.Context()).Model(&models.Payment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list payments"})
		return
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Offset(pagination.Offset()).Limit(pagination.PerPage).Find(&payments).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list payments"})
		return
	}

	writeJSON(w, http.StatusOK, paginated(payments, total, pagination))
}

// loadOwnApplication resolves {id} and enforces that the application belongs
// to the caller. Admins can touch any application.
func (h *PaymentHandler) loadOwnApplication(w http.ResponseWriter, r *http.Request) (*models.RentalApplication, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}

	app, err := h.setup.GetApplication(r.Context(), id)
	if err != nil {
		if errors.Is(err, billing.ErrApplicationNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Application not found"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load application"})
		return nil, false
	}

	if app.UserID != middleware.GetUserID(r.Context()) && middleware.GetUserRole(r.Context()) != "admin" {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		return nil, false
	}

	return app, true
}

func (h *PaymentHandler) writeSetupError(w http.ResponseWriter, app *models.RentalApplication, retryStep billing.SetupStep, err error) {
	if errors.Is(err, billing.ErrStepOutOfOrder) {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Payment setup step out of order"})
		return
	}

	// Processor failures surface the upstream message and tell the client
	// which step to retry.
	writeJSON(w, http.StatusPaymentRequired, struct {
		Error string `json:"error"`
		Step  int    `json:"step"`
	}{
		Error: err.Error(),
		Step:  int(retryStep),
	})
}

func (h *PaymentHandler) stepResponse(app *models.RentalApplication, step billing.SetupStep, payment *models.Payment) dto.SetupStepResponse {
	resp := dto.SetupStepResponse{
		ApplicationID: app.ID.String(),
		Step:          int(step),
		StepName:      step.String(),
	}
	if payment != nil {
		resp.Payment = payment
	}
	return resp
}
