package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lindenpm/linden/internal/database/models"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"gorm.io/gorm"
)

const maxWebhookBytes = 65536

type WebhookHandler struct {
	db            *gorm.DB
	signingSecret string
	logger        *slog.Logger
}

func NewWebhookHandler(db *gorm.DB, signingSecret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{db: db, signingSecret: signingSecret, logger: logger}
}

// HandleStripe verifies the event signature and applies the state change.
// Unhandled event types are acknowledged so Stripe stops retrying them.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		http.Error(w, "Read failed", http.StatusBadRequest)
		return
	}

	// Accept any API version: the endpoint is authenticated by signature,
	// and the SDK's pinned version need not match the account's.
	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), h.signingSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "identity.verification_session.verified":
		err = h.applyVerification(r.Context(), event, models.VerificationVerified)
	case "identity.verification_session.requires_input":
		err = h.applyVerification(r.Context(), event, models.VerificationRejected)
	case "payment_intent.succeeded":
		err = h.applyPaymentIntent(r.Context(), event, models.PaymentStatusPaid)
	case "payment_intent.payment_failed":
		err = h.applyPaymentIntent(r.Context(), event, models.PaymentStatusFailed)
	default:
		h.logger.Debug("ignoring webhook event", "type", event.Type)
	}

	if err != nil {
		h.logger.Error("webhook handling failed", "type", event.Type, "error", err)
		http.Error(w, "Handling failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// applyVerification updates the account named in the session metadata.
func (h *WebhookHandler) applyVerification(ctx context.Context, event stripe.Event, status models.VerificationStatus) error {
	var session stripe.IdentityVerificationSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return err
	}

	userID, ok := session.Metadata["user_id"]
	if !ok {
		h.logger.Warn("verification session without user_id metadata", "session", session.ID)
		return nil
	}

	res := h.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("verification_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		h.logger.Warn("verification update matched no user", "user_id", userID)
	}
	return nil
}

func (h *WebhookHandler) applyPaymentIntent(ctx context.Context, event stripe.Event, status models.PaymentStatus) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return err
	}

	updates := map[string]interface{}{"status": status}
	if status == models.PaymentStatusPaid {
		updates["paid_at"] = time.Now().Unix()
	}

	res := h.db.WithContext(ctx).Model(&models.Payment{}).
		Where("stripe_payment_intent_id = ?", intent.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// An intent we did not create, for example a charge made in the
		// Stripe dashboard. Acknowledge and move on.
		h.logger.Info("payment intent not tracked", "intent", intent.ID)
	}
	return nil
}
