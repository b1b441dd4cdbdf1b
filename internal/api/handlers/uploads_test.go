package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/lindenpm/linden/internal/api/handlers"
	"github.com/lindenpm/linden/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	blobs := storage.NewMemoryStore()
	handler := handlers.NewUploadHandler(blobs)

	t.Run("accepts a problem photo", func(t *testing.T) {
		body, contentType := multipartFile(t, "leak.jpg", "image/jpeg", []byte("jpeg-bytes"))
		req := httptest.NewRequest("POST", "/api/v1/uploads?kind=problem", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		handler.Upload(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			URL string `json:"url"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, strings.Contains(resp.URL, "requests/problem/"))
	})

	t.Run("accepts a pdf verification document", func(t *testing.T) {
		body, contentType := multipartFile(t, "passport.pdf", "application/pdf", []byte("%PDF-"))
		req := httptest.NewRequest("POST", "/api/v1/uploads?kind=verification-document", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		handler.Upload(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("rejects pdf for photo kinds", func(t *testing.T) {
		body, contentType := multipartFile(t, "doc.pdf", "application/pdf", []byte("%PDF-"))
		req := httptest.NewRequest("POST", "/api/v1/uploads?kind=finished", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		handler.Upload(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		body, contentType := multipartFile(t, "x.jpg", "image/jpeg", []byte("jpeg"))
		req := httptest.NewRequest("POST", "/api/v1/uploads?kind=avatar", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		handler.Upload(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("upload failure surfaces as 500", func(t *testing.T) {
		blobs.FailNext = true
		body, contentType := multipartFile(t, "leak.jpg", "image/jpeg", []byte("jpeg"))
		req := httptest.NewRequest("POST", "/api/v1/uploads?kind=problem", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		handler.Upload(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
