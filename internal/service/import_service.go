package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/importer"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/repository"
)

// ImportService stores broker files parsed by the importer registry.
// Imports are all or nothing.
type ImportService struct {
	registry        *importer.Registry
	transactionRepo *repository.TransactionRepository
	userRepo        *repository.UserRepository
	reports         ReportInvalidator
	log             zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	registry *importer.Registry,
	transactionRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
	reports ReportInvalidator,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{
		registry:        registry,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		reports:         reports,
		log:             log.With().Str("component", "import").Logger(),
	}
}

// Import parses a file and stores its trades for the user. Problems with
// the file are reported in the result, not as an error; an error means
// the import could not be attempted or stored.
func (s *ImportService) Import(ctx context.Context, userID, filename string, content []byte) (model.ImportResult, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return model.ImportResult{}, err
	}

	parsed, err := s.registry.Parse(filename, content)
	if err != nil {
		if errors.Is(err, importer.ErrUnrecognised) {
			return model.ImportResult{Errors: []string{"Unrecognised file format"}}, nil
		}
		return model.ImportResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
	}
	if len(parsed.Errors) > 0 {
		return model.ImportResult{Errors: parsed.Errors}, nil
	}
	if len(parsed.Records) == 0 {
		return model.ImportResult{Errors: []string{}}, nil
	}

	existing, err := s.transactionRepo.ListForCalculation(ctx, userID)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	now := time.Now().UTC()
	incoming := make([]model.Transaction, len(parsed.Records))
	for i, r := range parsed.Records {
		incoming[i] = model.Transaction{
			ID:        uuid.New().String(),
			UserID:    userID,
			Date:      r.Date,
			Time:      r.Time,
			Action:    r.Action,
			Ticker:    r.Ticker,
			Quantity:  r.Quantity,
			Price:     r.Price.String(),
			Value:     r.Value.String(),
			Fee:       r.Fee.String(),
			CreatedAt: now,
		}
		if r.ContractNote != "" {
			note := r.ContractNote
			incoming[i].ContractNote = &note
		}
	}

	if msgs := ledgerProblems(userID, existing, incoming); len(msgs) > 0 {
		return model.ImportResult{Errors: msgs}, nil
	}

	if err := s.transactionRepo.InsertMany(ctx, incoming); err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
	}
	s.reports.Invalidate(userID)

	s.log.Info().
		Str("user_id", userID).
		Str("parser", parsed.Parser).
		Int("imported", len(incoming)).
		Msg("transactions imported")

	return model.ImportResult{Imported: len(incoming), Errors: []string{}}, nil
}

// ledgerProblems checks the combined ledger and describes each problem by
// the file row it came from.
func ledgerProblems(userID string, existing, incoming []model.Transaction) []string {
	ledger := toLedger(existing)
	for i, t := range toLedger(incoming) {
		t.ID = fmt.Sprintf("record %d", i+1)
		ledger = append(ledger, t)
	}

	_, err := cgt.Normalize(userID, ledger)
	if err == nil {
		return nil
	}

	var verrs cgt.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, v := range verrs {
		msgs = append(msgs, v.Error())
	}
	return msgs
}
