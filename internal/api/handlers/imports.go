package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tregeagle/finagle/internal/api/response"
	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/importer"
	"github.com/tregeagle/finagle/internal/service"
)

// maxUploadBytes bounds an uploaded broker file.
const maxUploadBytes = 10 << 20

// ImportHandler handles broker file uploads and the import template.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// Import handles multipart uploads of a broker file in the "file" field.
// Problems inside the file are reported in the result body, not as an
// error status.
//
// Endpoint: POST /api/v1/users/{userId}/import
// Response: 200 OK with ImportResult
// Error: 400 Bad Request if no file is attached
// Error: 404 Not Found if user not found
// Error: 500 Internal Server Error if the import cannot be stored
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to read upload", err.Error())
		return
	}

	result, err := h.importService.Import(r.Context(), chi.URLParam(r, "userId"), header.Filename, content)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportTransactions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Template returns the native CSV import template.
//
// Endpoint: GET /api/v1/import/template
// Response: 200 OK with text/csv attachment
func (h *ImportHandler) Template(w http.ResponseWriter, _ *http.Request) {
	body, err := importer.Template()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to build template", err.Error())
		return
	}

	writeAttachment(w, "finagle_import_template.csv", "text/csv", body)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Nothing to do once the status is written
	w.Write(body)
}
