package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/maintenance"
)

// CleanupHandler exposes the retention purge to an external scheduler.
// Authentication is a shared bearer secret, not a user session, because the
// caller is a cron job.
type CleanupHandler struct {
	service   *maintenance.Service
	secret    string
	retention time.Duration
	logger    *slog.Logger
}

func NewCleanupHandler(service *maintenance.Service, secret string, retention time.Duration, logger *slog.Logger) *CleanupHandler {
	return &CleanupHandler{service: service, secret: secret, retention: retention, logger: logger}
}

func (h *CleanupHandler) Run(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	if r.URL.Query().Get("dry_run") == "true" {
		expired, err := h.service.PreviewExpired(r.Context(), h.retention)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Preview failed"})
			return
		}
		writeJSON(w, http.StatusOK, dto.CleanupResponse{DeletedCount: int64(len(expired)), DryRun: true})
		return
	}

	deleted, err := h.service.PurgeExpired(r.Context(), h.retention)
	if err != nil {
		h.logger.Error("retention purge failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Purge failed"})
		return
	}

	h.logger.Info("retention purge via endpoint", "deleted", deleted)
	writeJSON(w, http.StatusOK, dto.CleanupResponse{DeletedCount: deleted})
}
