package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tregeagle/finagle/internal/api/request"
	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/repository"
	"github.com/tregeagle/finagle/internal/validation"
)

// TransactionService handles the transaction ledger of a user. Every change
// is checked against the whole ledger so stored history always stays
// computable, and invalidates the user's cached CGT report.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	userRepo        *repository.UserRepository
	reports         ReportInvalidator
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
	reports ReportInvalidator,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		reports:         reports,
	}
}

// ListTransactions returns a user's transactions, optionally narrowed by
// ticker, action and financial year.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, filter request.TransactionFilter) ([]model.Transaction, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	f := model.TransactionFilter{
		Ticker: strings.TrimSpace(filter.Ticker),
		Action: strings.TrimSpace(filter.Action),
	}
	if filter.FinancialYear != "" {
		fy, err := cgt.ParseFinancialYear(filter.FinancialYear)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidFinancialYear, err)
		}
		f.From = fy.Start().Format(cgt.DateLayout)
		f.To = fy.End().Format(cgt.DateLayout)
	}

	return s.transactionRepo.List(ctx, userID, f)
}

// GetTransaction retrieves a single transaction owned by the user.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, transactionID string) (model.Transaction, error) {
	return s.transactionRepo.Get(ctx, userID, transactionID)
}

// CreateTransaction validates and stores a request. A sell that exceeds the
// units held on its date is rejected with ErrLedgerInconsistent.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, req request.CreateTransactionRequest) (model.Transaction, error) {
	if err := validation.ValidateCreateTransaction(req); err != nil {
		return model.Transaction{}, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return model.Transaction{}, err
	}

	quantity := decimal.NewFromInt(req.Quantity)
	value := req.Price.Mul(quantity)
	if req.Value != nil {
		value = *req.Value
	}
	fee := decimal.Zero
	if req.Fee != nil {
		fee = *req.Fee
	}

	transaction := model.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Date:         req.Date,
		Time:         normaliseClock(req.Time),
		Action:       strings.ToLower(strings.TrimSpace(req.Action)),
		Ticker:       strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Quantity:     req.Quantity,
		Price:        req.Price.String(),
		Value:        value.String(),
		Fee:          fee.String(),
		ContractNote: req.ContractNote,
		CreatedAt:    time.Now().UTC(),
	}

	existing, err := s.transactionRepo.ListForCalculation(ctx, userID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	if err := checkLedger(userID, toLedger(append(existing, transaction))); err != nil {
		return model.Transaction{}, err
	}

	if err := s.transactionRepo.Insert(ctx, transaction); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	s.reports.Invalidate(userID)

	return transaction, nil
}

// DeleteTransaction removes a transaction. Deleting a buy that later sells
// depend on is rejected with ErrLedgerInconsistent.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	existing, err := s.transactionRepo.ListForCalculation(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	idx := slices.IndexFunc(existing, func(t model.Transaction) bool { return t.ID == transactionID })
	if idx < 0 {
		return apperrors.ErrTransactionNotFound
	}
	if err := checkLedger(userID, toLedger(slices.Delete(existing, idx, idx+1))); err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(ctx, userID, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.reports.Invalidate(userID)
	return nil
}
