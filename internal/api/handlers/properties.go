package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/database/models"
	"gorm.io/gorm"
)

type PropertyHandler struct {
	db *gorm.DB
}

func NewPropertyHandler(db *gorm.DB) *PropertyHandler {
	return &PropertyHandler{db: db}
}

// CreateOwner registers a new owner aggregate. Owner names are globally
// unique.
func (h *PropertyHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var dup models.PropertyOwner
	if err := h.db.WithContext(r.Context()).Where("name = ?", req.Name).First(&dup).Error; err == nil {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Property owner name already taken"})
		return
	}

	owner := models.PropertyOwner{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.db.WithContext(r.Context()).Create(&owner).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create owner"})
		return
	}

	writeJSON(w, http.StatusCreated, owner)
}

func (h *PropertyHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	pagination := paginationFrom(r)

	var total int64
	query := h.db.WithContext(r.Context()).Model(&models.PropertyOwner{})
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list owners"})
		return
	}

	var owners []models.PropertyOwner
	if err := query.Order("name").Offset(pagination.Offset()).Limit(pagination.PerPage).Find(&owners).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list owners"})
		return
	}

	writeJSON(w, http.StatusOK, paginated(owners, total, pagination))
}

func (h *PropertyHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var owner models.PropertyOwner
	err := h.db.WithContext(r.Context()).
		Preload("Properties").
		Preload("Members").
		First(&owner, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Owner not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load owner"})
		return
	}

	writeJSON(w, http.StatusOK, owner)
}

// AddProperty appends a property to the owner aggregate.
func (h *PropertyHandler) AddProperty(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.AddPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var owner models.PropertyOwner
	if err := h.db.WithContext(r.Context()).First(&owner, ownerID).Error; err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Owner not found"})
		return
	}

	status := models.PropertyStatusAvailable
	if req.Status != "" {
		status = models.PropertyStatus(req.Status)
	}

	property := models.Property{
		OwnerID:    owner.ID,
		Name:       req.Name,
		Type:       models.PropertyType(req.Type),
		SquareFeet: req.SquareFeet,
		RentCents:  req.RentCents,
		Status:     status,
		Address:    req.Address,
	}
	if err := h.db.WithContext(r.Context()).Create(&property).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create property"})
		return
	}

	writeJSON(w, http.StatusCreated, property)
}

// AddMember links a user account to the owner aggregate.
func (h *PropertyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var owner models.PropertyOwner
	if err := h.db.WithContext(r.Context()).First(&owner, ownerID).Error; err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Owner not found"})
		return
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	member := models.OwnerMember{
		OwnerID: owner.ID,
		UserID:  uuid.MustParse(req.UserID),
		Name:    req.Name,
		Email:   req.Email,
		Role:    role,
	}
	if err := h.db.WithContext(r.Context()).Create(&member).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add member"})
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	pagination := paginationFrom(r)

	query := h.db.WithContext(r.Context()).Model(&models.Property{})
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidPropertyStatus(status) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unknown property status"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if ptype := r.URL.Query().Get("type"); ptype != "" {
		if !models.ValidPropertyType(ptype) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unknown property type"})
			return
		}
		query = query.Where("type = ?", ptype)
	}
	if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list properties"})
		return
	}

	var properties []models.Property
	if err := query.Order("created_at DESC").Offset(pagination.Offset()).Limit(pagination.PerPage).Find(&properties).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list properties"})
		return
	}

	writeJSON(w, http.StatusOK, paginated(properties, total, pagination))
}

func (h *PropertyHandler) UpdatePropertyStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePropertyStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	res := h.db.WithContext(r.Context()).Model(&models.Property{}).
		Where("id = ?", id).
		Update("status", req.Status)
	if res.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Update failed"})
		return
	}
	if res.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Property not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Status updated"})
}

// parseID pulls the {id} route parameter as a UUID, answering 400 itself on
// bad input.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

func paginationFrom(r *http.Request) dto.PaginationParams {
	p := dto.PaginationParams{}
	p.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	p.PerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	p.Normalize()
	return p
}

func paginated(data interface{}, total int64, p dto.PaginationParams) dto.PaginatedResponse {
	totalPages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return dto.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
	}
}
