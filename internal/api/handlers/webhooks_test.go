package handlers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lindenpm/linden/internal/api/handlers"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_test_secret"

func setupWebhookHandler(t *testing.T) (*handlers.WebhookHandler, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return handlers.NewWebhookHandler(db, webhookSecret, discardLogger()), db
}

// signPayload produces a Stripe-Signature header the verifier accepts.
func signPayload(payload string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(t *testing.T, h *handlers.WebhookHandler, payload, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	rr := httptest.NewRecorder()
	h.HandleStripe(rr, req)
	return rr
}

func TestWebhookHandler_RejectsBadSignature(t *testing.T) {
	h, _ := setupWebhookHandler(t)

	payload := `{"type":"payment_intent.succeeded","data":{"object":{}}}`
	rr := postWebhook(t, h, payload, "t=123,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhookHandler_PaymentIntentSucceeded(t *testing.T) {
	h, db := setupWebhookHandler(t)

	user := testutil.CreateTestUser(t, db)
	payment := models.Payment{
		UserID:                user.ID,
		AmountCents:           150000,
		Kind:                  models.PaymentKindDeposit,
		Method:                models.PaymentMethodACH,
		Status:                models.PaymentStatusPending,
		StripePaymentIntentID: "pi_test_123",
	}
	require.NoError(t, db.Create(&payment).Error)

	payload := `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_test_123"}}}`
	rr := postWebhook(t, h, payload, signPayload(payload))
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
	assert.NotZero(t, updated.PaidAt)
}

func TestWebhookHandler_PaymentIntentFailed(t *testing.T) {
	h, db := setupWebhookHandler(t)

	user := testutil.CreateTestUser(t, db)
	payment := models.Payment{
		UserID:                user.ID,
		AmountCents:           150000,
		Kind:                  models.PaymentKindDeposit,
		Method:                models.PaymentMethodACH,
		Status:                models.PaymentStatusPending,
		StripePaymentIntentID: "pi_test_456",
	}
	require.NoError(t, db.Create(&payment).Error)

	payload := `{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_test_456"}}}`
	rr := postWebhook(t, h, payload, signPayload(payload))
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, updated.Status)
}

func TestWebhookHandler_IdentityVerified(t *testing.T) {
	h, db := setupWebhookHandler(t)
	user := testutil.CreateTestUser(t, db)

	payload := fmt.Sprintf(
		`{"type":"identity.verification_session.verified","data":{"object":{"id":"vs_1","metadata":{"user_id":%q}}}}`,
		user.ID.String())
	rr := postWebhook(t, h, payload, signPayload(payload))
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, models.VerificationVerified, updated.VerificationStatus)
}

func TestWebhookHandler_IdentityRequiresInput(t *testing.T) {
	h, db := setupWebhookHandler(t)
	user := testutil.CreateTestUser(t, db)

	payload := fmt.Sprintf(
		`{"type":"identity.verification_session.requires_input","data":{"object":{"id":"vs_2","metadata":{"user_id":%q}}}}`,
		user.ID.String())
	rr := postWebhook(t, h, payload, signPayload(payload))
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, models.VerificationRejected, updated.VerificationStatus)
}

func TestWebhookHandler_AcceptsOlderAPIVersion(t *testing.T) {
	h, db := setupWebhookHandler(t)

	user := testutil.CreateTestUser(t, db)
	payment := models.Payment{
		UserID:                user.ID,
		AmountCents:           150000,
		Kind:                  models.PaymentKindDeposit,
		Method:                models.PaymentMethodACH,
		Status:                models.PaymentStatusPending,
		StripePaymentIntentID: "pi_test_789",
	}
	require.NoError(t, db.Create(&payment).Error)

	// Accounts pinned to an older API version still deliver signed events.
	payload := `{"api_version":"2020-08-27","type":"payment_intent.succeeded","data":{"object":{"id":"pi_test_789"}}}`
	rr := postWebhook(t, h, payload, signPayload(payload))
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
}

func TestWebhookHandler_UnknownEventAcknowledged(t *testing.T) {
	h, _ := setupWebhookHandler(t)

	payload := `{"type":"customer.created","data":{"object":{"id":"cus_1"}}}`
	rr := postWebhook(t, h, payload, signPayload(payload))
	assert.Equal(t, http.StatusOK, rr.Code)
}
