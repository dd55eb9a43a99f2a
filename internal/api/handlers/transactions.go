package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tregeagle/finagle/internal/api/request"
	"github.com/tregeagle/finagle/internal/api/response"
	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/service"
	"github.com/tregeagle/finagle/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions handles GET requests to list a user's transactions,
// ordered by date and time.
//
// Endpoint: GET /api/v1/users/{userId}/transactions
// Query Parameters: ticker, action, fy (YYYY-YYYY), all optional
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if fy is malformed
// Error: 404 Not Found if user not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := request.TransactionFilter{
		Ticker:        q.Get("ticker"),
		Action:        q.Get("action"),
		FinancialYear: q.Get("fy"),
	}

	transactions, err := h.transactionService.ListTransactions(r.Context(), chi.URLParam(r, "userId"), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/v1/users/{userId}/transactions/{transactionId}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if an ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.transactionService.GetTransaction(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "transactionId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransaction.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to create a new transaction.
//
// Endpoint: POST /api/v1/users/{userId}/transactions
// Request Body: CreateTransactionRequest (date, time, action, ticker, quantity, price, value, fee, contract_note)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if user not found
// Error: 422 Unprocessable Entity if a sell exceeds the units held
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), chi.URLParam(r, "userId"), req)
	if err != nil {
		respondServiceError(w, err, "failed to create transaction")
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// DeleteTransaction handles DELETE requests to remove a transaction.
//
// Endpoint: DELETE /api/v1/users/{userId}/transactions/{transactionId}
// Response: 204 No Content
// Error: 404 Not Found if transaction not found
// Error: 422 Unprocessable Entity if a later sell depends on the transaction
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := h.transactionService.DeleteTransaction(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "transactionId"))
	if err != nil {
		respondServiceError(w, err, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
