package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/api/handlers"
	"github.com/lindenpm/linden/internal/auth"
	"github.com/lindenpm/linden/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGoogle struct {
	email string
	name  string
	err   error
}

func (f *fakeGoogle) Verify(ctx context.Context, code string) (string, string, error) {
	return f.email, f.name, f.err
}

type fakeResetMailer struct {
	tokens []string
	emails []string
}

func (f *fakeResetMailer) PasswordReset(ctx context.Context, name, email, token string) error {
	f.emails = append(f.emails, email)
	f.tokens = append(f.tokens, token)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *gorm.DB, *fakeGoogle, *fakeResetMailer) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	authService := auth.NewService(db, testutil.CreateTestJWTService())
	google := &fakeGoogle{email: "oauth@example.com", name: "OAuth User"}
	resetMailer := &fakeResetMailer{}
	handler := handlers.NewAuthHandler(authService, google, resetMailer, discardLogger())

	r := chi.NewRouter()
	r.Post("/api/v1/auth/signup", handler.Signup)
	r.Post("/api/v1/auth/login", handler.Login)
	r.Post("/api/v1/auth/google", handler.GoogleLogin)
	r.Post("/api/v1/auth/password-reset", handler.RequestPasswordReset)
	r.Post("/api/v1/auth/password-reset/confirm", handler.ConfirmPasswordReset)

	return r, db, google, resetMailer
}

func TestAuthHandler_Signup(t *testing.T) {
	router, _, _, _ := setupAuthTestRouter(t)

	t.Run("tenant signup", func(t *testing.T) {
		body := map[string]string{
			"email":     "tenant@example.com",
			"password":  "Securepass1",
			"name":      "New Tenant",
			"user_type": "tenant",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/signup", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "tenant@example.com", resp.User.Email)
		assert.Equal(t, "tenant", resp.User.UserType)
		assert.Equal(t, "pending", resp.User.VerificationStatus)
	})

	t.Run("property owner signup creates aggregate", func(t *testing.T) {
		body := map[string]string{
			"email":      "owner@example.com",
			"password":   "Securepass1",
			"name":       "Olive Owner",
			"user_type":  "property-owner",
			"owner_name": "Olive Holdings",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/signup", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)

		// Same aggregate name again conflicts.
		body["email"] = "other@example.com"
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/signup", body)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("owner signup without owner name", func(t *testing.T) {
		body := map[string]string{
			"email":     "bare-owner@example.com",
			"password":  "Securepass1",
			"name":      "Bare Owner",
			"user_type": "property-owner",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/signup", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		body := map[string]string{
			"email":     "weak@example.com",
			"password":  "short",
			"name":      "Weak",
			"user_type": "tenant",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/signup", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := map[string]string{
			"email":     "dup@example.com",
			"password":  "Securepass1",
			"name":      "Dup",
			"user_type": "tenant",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/signup", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/signup", body)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	router, db, _, _ := setupAuthTestRouter(t)
	user := testutil.CreateTestUser(t, db)

	t.Run("valid credentials", func(t *testing.T) {
		body := map[string]string{"email": user.Email, "password": "testpassword123"}
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := map[string]string{"email": user.Email, "password": "wrong"}
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		body := map[string]string{"email": "ghost@example.com", "password": "whatever"}
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_GoogleLogin(t *testing.T) {
	router, _, google, _ := setupAuthTestRouter(t)

	body := map[string]string{"code": "auth-code"}

	// First login creates the account.
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/google", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, google.email, resp.User.Email)
	firstID := resp.User.ID

	// Second login reuses it.
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/google", body)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, firstID, resp.User.ID)

	t.Run("unverified email", func(t *testing.T) {
		google.err = auth.ErrUnverifiedGoogleEmail
		defer func() { google.err = nil }()

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/google", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	router, db, _, resetMailer := setupAuthTestRouter(t)
	user := testutil.CreateTestUser(t, db)

	// Request a reset; token goes out by email.
	body := map[string]string{"email": user.Email}
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/password-reset", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resetMailer.tokens, 1)

	// Unknown email answers identically and sends nothing.
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/password-reset",
		map[string]string{"email": "ghost@example.com"})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, resetMailer.tokens, 1)

	// Confirm with the token, then log in with the new password.
	confirm := map[string]string{"token": resetMailer.tokens[0], "password": "Newpassword1"}
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/password-reset/confirm", confirm)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	login := map[string]string{"email": user.Email, "password": "Newpassword1"}
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", login)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// The token is single-use in effect: the stored hash was cleared.
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/password-reset/confirm", confirm)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
