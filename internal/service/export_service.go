package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/importer"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/repository"
)

// ExportFile is a rendered export ready to be sent as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a user's transactions as JSON or as the native CSV
// template, which the importer reads back.
type ExportService struct {
	transactionRepo *repository.TransactionRepository
	userRepo        *repository.UserRepository
}

// NewExportService creates a new ExportService.
func NewExportService(transactionRepo *repository.TransactionRepository, userRepo *repository.UserRepository) *ExportService {
	return &ExportService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
	}
}

// Export renders the user's transactions in the given format ("json" or "csv").
func (s *ExportService) Export(ctx context.Context, userID, format string) (ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		return ExportFile{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidExportFormat, format)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ExportFile{}, err
	}
	txs, err := s.transactionRepo.List(ctx, userID, model.TransactionFilter{})
	if err != nil {
		return ExportFile{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToExportTransactions, err)
	}

	file := ExportFile{Filename: user.Username + "_export." + format}
	switch format {
	case "csv":
		file.ContentType = "text/csv"
		file.Body, err = renderCSV(txs)
	default:
		file.ContentType = "application/json"
		file.Body, err = json.MarshalIndent(model.Export{User: user, Transactions: txs}, "", "  ")
	}
	if err != nil {
		return ExportFile{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToExportTransactions, err)
	}
	return file, nil
}

func renderCSV(txs []model.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(importer.NativeHeaders); err != nil {
		return nil, err
	}
	for _, t := range txs {
		note := ""
		if t.ContractNote != nil {
			note = *t.ContractNote
		}
		row := []string{t.Date, t.Time, t.Action, t.Ticker, strconv.FormatInt(t.Quantity, 10), t.Price, t.Value, t.Fee, note}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
