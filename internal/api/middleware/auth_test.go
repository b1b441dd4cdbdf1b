package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lindenpm/linden/internal/api/middleware"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	jwtService := testutil.CreateTestJWTService()
	user := testutil.CreateTestUser(t, db)
	token := testutil.GenerateTestToken(t, jwtService, user)

	var gotUserID string
	var gotType models.UserType
	handler := middleware.Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = middleware.GetUserID(r.Context()).String()
		gotType = middleware.GetUserType(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/me", nil, token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID.String(), gotUserID)
		assert.Equal(t, models.UserTypeTenant, gotType)
	})

	t.Run("missing token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/me", nil, "not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	jwtService := testutil.CreateTestJWTService()
	tenant := testutil.CreateTestUser(t, db)
	manager := testutil.CreateTestManager(t, db)

	chain := middleware.Auth(jwtService)(
		middleware.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/admin", nil,
		testutil.GenerateTestToken(t, jwtService, tenant))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/admin", nil,
		testutil.GenerateTestToken(t, jwtService, manager))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUserType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	jwtService := testutil.CreateTestJWTService()
	tenant := testutil.CreateTestUser(t, db)
	manager := testutil.CreateTestManager(t, db)

	chain := middleware.Auth(jwtService)(
		middleware.RequireUserType(models.UserTypeTenant)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/applications", nil,
		testutil.GenerateTestToken(t, jwtService, tenant))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/applications", nil,
		testutil.GenerateTestToken(t, jwtService, manager))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
