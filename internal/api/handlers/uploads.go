package handlers

import (
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/lindenpm/linden/internal/api/dto"
	"github.com/lindenpm/linden/internal/api/validation"
	"github.com/lindenpm/linden/internal/storage"
)

const maxDocumentBytes = 10_000_000 // identity documents

// uploadKinds maps the client-facing kind to its key prefix and size limit.
var uploadKinds = map[string]struct {
	prefix   string
	maxBytes int64
	docTypes bool
}{
	"problem":               {"requests/problem", maxImageBytes, false},
	"finished":              {"requests/finished", maxImageBytes, false},
	"verification-document": {"verification", maxDocumentBytes, true},
}

type UploadHandler struct {
	blobs storage.BlobStore
}

func NewUploadHandler(blobs storage.BlobStore) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload stores a file and returns its public URL. The URL is then attached
// to a request or verification record by a follow-up call.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, ok := uploadKinds[r.URL.Query().Get("kind")]
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unknown upload kind"})
		return
	}

	if err := r.ParseMultipartForm(kind.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "File is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	allowed := validation.AllowedImageType(contentType)
	if kind.docTypes {
		allowed = validation.AllowedDocumentType(contentType)
	}
	if !allowed {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unsupported file type"})
		return
	}
	if header.Size > kind.maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "File exceeds the size limit"})
		return
	}

	key := fmt.Sprintf("%s/%s%s", kind.prefix, uuid.New(), path.Ext(header.Filename))
	url, err := h.blobs.Put(r.Context(), key, contentType, file, header.Size)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Upload failed"})
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}
