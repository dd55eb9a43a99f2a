package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tregeagle/finagle/internal/api/response"
	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/validation"
)

const maxBodyBytes = 1 << 20

// parseJSON decodes a request body into T, rejecting unknown fields and
// trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errors.New("request body is empty")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return v, errors.New("request body must contain a single JSON object")
	}
	return v, nil
}

// respondServiceError maps service errors to HTTP statuses. Anything it does
// not recognise is a 500 with the given message.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrUserNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrTransactionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrFinancialYearNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrFinancialYearNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidFinancialYear):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidFinancialYear.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidExportFormat):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidExportFormat.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidUsername):
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"username": err.Error()})
	case errors.Is(err, apperrors.ErrLedgerInconsistent):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrLedgerInconsistent.Error(), ledgerDetails(err))
	default:
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}

// ledgerDetails lists one message per rejected transaction.
func ledgerDetails(err error) []string {
	var verrs cgt.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, len(verrs))
		for i, v := range verrs {
			msgs[i] = v.Error()
		}
		return msgs
	}
	return []string{err.Error()}
}
