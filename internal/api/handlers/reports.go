package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tregeagle/finagle/internal/api/response"
	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/service"
)

// ReportHandler serves CGT reports.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Overview returns the totals of every financial year with disposals, most
// recent first, without lot matches.
//
// Endpoint: GET /api/v1/users/{userId}/reports/cgt
// Response: 200 OK with CGTOverview
// Error: 404 Not Found if user not found
// Error: 422 Unprocessable Entity if the stored ledger cannot be processed
// Error: 500 Internal Server Error if calculation fails
func (h *ReportHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reportService.Overview(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculateCGT.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, overview)
}

// Detail returns one financial year including its lot matches.
//
// Endpoint: GET /api/v1/users/{userId}/reports/cgt/{fy}
// Response: 200 OK with CGTOverview holding a single year
// Error: 400 Bad Request if fy is not YYYY-YYYY
// Error: 404 Not Found if the user or the year has no data
// Error: 422 Unprocessable Entity if the stored ledger cannot be processed
func (h *ReportHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.reportService.Detail(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "fy"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculateCGT.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}
