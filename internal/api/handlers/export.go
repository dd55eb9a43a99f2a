package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/service"
)

// ExportHandler serves ledger downloads.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export downloads every transaction of a user.
//
// Endpoint: GET /api/v1/users/{userId}/export?format=json|csv
// Response: 200 OK with a JSON or CSV attachment
// Error: 400 Bad Request if the format is unknown
// Error: 404 Not Found if user not found
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.Export(r.Context(), chi.URLParam(r, "userId"), r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToExportTransactions.Error())
		return
	}

	writeAttachment(w, file.Filename, file.ContentType, file.Body)
}
