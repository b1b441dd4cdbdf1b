package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/api/validation"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/maintenance"
)

const maxImageBytes = 4_500_000 // request photos

type RequestHandler struct {
	service *maintenance.Service
}

func NewRequestHandler(service *maintenance.Service) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create accepts either a JSON body or a multipart form with an optional
// problem photo. The endpoint is public: requesters are not always tenants
// with accounts.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequestRequest
	var image *maintenance.ImageUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid multipart form"})
			return
		}
		req = dto.CreateRequestRequest{
			FullName:         r.FormValue("full_name"),
			Email:            r.FormValue("email"),
			Phone:            r.FormValue("phone"),
			Address:          r.FormValue("address"),
			Description:      r.FormValue("description"),
			Message:          r.FormValue("message"),
			RequiresApproval: r.FormValue("requires_approval") == "true",
		}

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			contentType := header.Header.Get("Content-Type")
			if !validation.AllowedImageType(contentType) {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unsupported image type"})
				return
			}
			if header.Size > maxImageBytes {
				writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "Image exceeds the size limit"})
				return
			}
			image = &maintenance.ImageUpload{
				Filename:    header.Filename,
				ContentType: contentType,
				Size:        header.Size,
				Body:        file,
			}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	created, err := h.service.Submit(r.Context(), maintenance.SubmitInput{
		FullName:         validation.SanitizeString(req.FullName),
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          validation.SanitizeString(req.Address),
		Description:      validation.SanitizeString(req.Description),
		Message:          validation.SanitizeString(req.Message),
		RequiresApproval: req.RequiresApproval,
		Image:            image,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to submit request"})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := paginationFrom(r)

	filters := maintenance.ListFilters{
		Email: r.URL.Query().Get("email"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidRequestStatus(status) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unknown request status"})
			return
		}
		filters.Status = status
	}

	requests, total, err := h.service.List(r.Context(), filters, pagination.Offset(), pagination.PerPage)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list requests"})
		return
	}

	writeJSON(w, http.StatusOK, paginated(requests, total, pagination))
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, maintenance.ErrRequestNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Request not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load request"})
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// Update applies a partial change: workflow status and owner approval move
// independently and can arrive in the same call.
func (h *RequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	if req.ApprovalStatus != nil {
		approvedBy := req.ApprovedBy
		if approvedBy == "" {
			approvedBy = "manager"
		}
		if _, err := h.service.SetApproval(r.Context(), id, models.ApprovalStatus(*req.ApprovalStatus), approvedBy); err != nil {
			h.writeUpdateError(w, err)
			return
		}
	}

	if req.Status != nil || req.AdminNotes != "" || req.FinishedImageURL != "" {
		update := maintenance.StatusUpdate{
			AdminNotes:       req.AdminNotes,
			FinishedImageURL: req.FinishedImageURL,
		}
		if req.Status != nil {
			update.Status = models.RequestStatus(*req.Status)
		} else {
			// Notes-only update keeps the current status.
			current, err := h.service.Get(r.Context(), id)
			if err != nil {
				h.writeUpdateError(w, err)
				return
			}
			update.Status = current.Status
		}

		if _, err := h.service.UpdateStatus(r.Context(), id, update); err != nil {
			h.writeUpdateError(w, err)
			return
		}
	}

	updated, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *RequestHandler) writeUpdateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, maintenance.ErrRequestNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Request not found"})
	case errors.Is(err, maintenance.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Status transition not allowed"})
	case errors.Is(err, maintenance.ErrApprovalRequired):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Owner approval required before work starts"})
	case errors.Is(err, maintenance.ErrRequestDeclined):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Declined request can only be rejected"})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Update failed"})
	}
}

// Delete soft-deletes; the record stays recoverable until the retention
// purge removes it.
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, maintenance.ErrRequestNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Request not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Delete failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Request deleted"})
}
