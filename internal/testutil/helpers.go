package testutil

import (
	"database/sql"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/importer"
	"github.com/tregeagle/finagle/internal/report"
	"github.com/tregeagle/finagle/internal/repository"
	"github.com/tregeagle/finagle/internal/service"
)

// NewTestReportService creates a ReportService with carry-forward disabled,
// two decimal places and no cache expiry.
func NewTestReportService(t *testing.T, db *sql.DB) *service.ReportService {
	t.Helper()
	return NewTestReportServiceWithOptions(t, db, cgt.Options{Workers: 2})
}

// NewTestReportServiceWithOptions creates a ReportService using the given engine options.
func NewTestReportServiceWithOptions(t *testing.T, db *sql.DB, opts cgt.Options) *service.ReportService {
	t.Helper()

	return service.NewReportService(
		repository.NewTransactionRepository(db, nil),
		repository.NewUserRepository(db),
		cgt.NewCalculator(opts),
		report.NewProjector(report.DefaultDecimalPlaces),
		time.Duration(0),
		zerolog.Nop(),
	)
}

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	return service.NewUserService(
		repository.NewUserRepository(db),
		NewTestReportService(t, db),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewTransactionRepository(db, nil),
		repository.NewUserRepository(db),
		NewTestReportService(t, db),
	)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return service.NewImportService(
		importer.Default(),
		repository.NewTransactionRepository(db, nil),
		repository.NewUserRepository(db),
		NewTestReportService(t, db),
		zerolog.Nop(),
	)
}

func NewTestExportService(t *testing.T, db *sql.DB) *service.ExportService {
	t.Helper()

	return service.NewExportService(
		repository.NewTransactionRepository(db, nil),
		repository.NewUserRepository(db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"carry_forward_losses": false})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeUsername generates a unique username for testing.
//
// Example usage:
//
//	name := testutil.MakeUsername("alice")
//	// Returns: "alice_k3x9q2"
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + strings.ToLower(randomAlphanumeric(6))
}

// MakeTicker generates an exchange ticker for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("BHP")
//	// Returns: "BHP1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

func mulDecimal(t *testing.T, price string, quantity int64) string {
	t.Helper()

	p, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("Invalid test price %q: %v", price, err)
	}
	return p.Mul(decimal.NewFromInt(quantity)).String()
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
