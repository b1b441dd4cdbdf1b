package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/api/middleware"
	"github.com/lindenpm/linden/internal/auth"
)

type UserHandler struct {
	authService *auth.Service
	setupKey    string
}

func NewUserHandler(authService *auth.Service, setupKey string) *UserHandler {
	return &UserHandler{authService: authService, setupKey: setupKey}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserDTO(user))
}

type updateAddressRequest struct {
	Address string `json:"address"`
}

func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req updateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Address == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Address is required"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.authService.UpdateAddress(r.Context(), userID, req.Address); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Update failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Address updated"})
}

type promoteRequest struct {
	Email    string `json:"email"`
	SetupKey string `json:"setup_key"`
}

// Promote grants the admin role. Guarded by the deployment's setup key, not
// by an existing admin, so the first admin can bootstrap itself.
func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if h.setupKey == "" || req.SetupKey != h.setupKey {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Invalid setup key"})
		return
	}

	if err := h.authService.PromoteToAdmin(r.Context(), req.Email); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Promotion failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "User promoted to admin"})
}
