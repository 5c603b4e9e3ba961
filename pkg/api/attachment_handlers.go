package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/middleware"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

// AttachmentHandlers handles file upload/download for todos
type AttachmentHandlers struct {
	store       *storage.Store
	blobs       storage.BlobStore
	logger      *observability.Logger
	maxFileSize int64
}

// NewAttachmentHandlers creates a new attachment handlers instance
func NewAttachmentHandlers(store *storage.Store, blobs storage.BlobStore, logger *observability.Logger, maxFileSize int64) *AttachmentHandlers {
	if maxFileSize <= 0 {
		maxFileSize = storage.DefaultMaxFileSize
	}
	return &AttachmentHandlers{
		store:       store,
		blobs:       blobs,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// RegisterRoutes registers attachment routes; all require authentication
func (h *AttachmentHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/todos/{id}/attachment", h.upload).Methods("POST")
	router.HandleFunc("/todos/{id}/attachment", h.download).Methods("GET")
}

// upload handles POST /api/v1/todos/{id}/attachment. Expects a multipart
// form with a "file" part. Uploading again replaces the previous
// attachment record; the old blob is removed best-effort.
func (h *AttachmentHandlers) upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	todoID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	todo, err := h.store.GetTodoOwned(r.Context(), user.ID, todoID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if todo == nil {
		httputil.WriteNotFoundError(w, "todo not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		// The multipart reader may pass the limit error through verbatim
		// or stringified, so match both ways.
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			httputil.WritePayloadTooLarge(w, fmt.Sprintf("file exceeds the %d byte limit", h.maxFileSize))
			return
		}
		httputil.WriteBadRequest(w, "expected a multipart form with a file part")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteBadRequest(w, "missing file part")
		return
	}
	defer file.Close()

	// Strip any client-supplied directory components
	filename := filepath.Base(header.Filename)
	if filename == "." || filename == "/" || filename == "" {
		httputil.WriteBadRequest(w, "invalid filename")
		return
	}

	key := fmt.Sprintf("todos/%d/%s-%s", todoID, uuid.NewString(), filename)
	if err := h.blobs.Put(r.Context(), key, file); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	oldKey := todo.AttachmentKey
	updated, err := h.store.SetAttachment(r.Context(), user.ID, todoID, filename, key)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !updated {
		// Todo vanished between the ownership check and the update
		httputil.WriteNotFoundError(w, "todo not found")
		return
	}

	if oldKey != "" {
		if err := h.blobs.Delete(r.Context(), oldKey); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
			h.logger.WithError(err).Warnf("failed to delete replaced attachment %s", oldKey)
		}
	}

	httputil.WriteSuccess(w, AttachmentResponse{TodoID: todoID, AttachmentName: filename})
}

// download handles GET /api/v1/todos/{id}/attachment
func (h *AttachmentHandlers) download(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	todoID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	todo, err := h.store.GetTodoOwned(r.Context(), user.ID, todoID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if todo == nil || todo.AttachmentKey == "" {
		httputil.WriteNotFoundError(w, "attachment not found")
		return
	}

	blob, err := h.blobs.Get(r.Context(), todo.AttachmentKey)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			httputil.WriteNotFoundError(w, "attachment not found")
			return
		}
		writeServiceError(w, h.logger, err)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", todo.AttachmentName))
	if _, err := io.Copy(w, blob); err != nil {
		h.logger.WithError(err).Warnf("attachment stream for todo %d interrupted", todoID)
	}
}
