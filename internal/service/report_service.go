package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/report"
	"github.com/tregeagle/finagle/internal/repository"
)

// ReportService computes CGT reports and caches them per user. A cached
// report is reused only while the fingerprint of the user's ledger matches
// the one it was computed from.
type ReportService struct {
	transactionRepo *repository.TransactionRepository
	userRepo        *repository.UserRepository
	calculator      *cgt.Calculator
	projector       *report.Projector
	cache           *cache.Cache
	log             zerolog.Logger
}

type cachedReport struct {
	fingerprint string
	report      *cgt.Report
}

// NewReportService creates a ReportService. A ttl of zero or less keeps
// entries until they are invalidated.
func NewReportService(
	transactionRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
	calculator *cgt.Calculator,
	projector *report.Projector,
	ttl time.Duration,
	log zerolog.Logger,
) *ReportService {
	c := cache.New(cache.NoExpiration, 0)
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &ReportService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		calculator:      calculator,
		projector:       projector,
		cache:           c,
		log:             log.With().Str("component", "reports").Logger(),
	}
}

// Report returns the full CGT report for a user.
func (s *ReportService) Report(ctx context.Context, userID string) (*cgt.Report, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	txs, err := s.transactionRepo.ListForCalculation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	fp := fingerprint(txs)
	if entry, ok := s.cache.Get(userID); ok {
		if cached := entry.(cachedReport); cached.fingerprint == fp {
			s.log.Debug().Str("user_id", userID).Bool("cache_hit", true).Msg("CGT report served")
			return cached.report, nil
		}
	}

	start := time.Now()
	rep, err := s.calculator.Calculate(ctx, userID, toLedger(txs))
	if err != nil {
		if errors.Is(err, cgt.ErrValidation) || errors.Is(err, cgt.ErrOverconsumption) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrLedgerInconsistent, err)
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCalculateCGT, err)
	}

	s.cache.Set(userID, cachedReport{fingerprint: fp, report: rep}, cache.DefaultExpiration)
	s.log.Info().
		Str("user_id", userID).
		Int("transactions", len(txs)).
		Int("financial_years", len(rep.FinancialYears)).
		Dur("duration", time.Since(start)).
		Bool("cache_hit", false).
		Msg("CGT report computed")

	return rep, nil
}

// Overview returns every financial year's totals without lot matches.
func (s *ReportService) Overview(ctx context.Context, userID string) (model.CGTOverview, error) {
	rep, err := s.Report(ctx, userID)
	if err != nil {
		return model.CGTOverview{}, err
	}
	return s.projector.Overview(rep), nil
}

// Detail returns one financial year, including its lot matches.
func (s *ReportService) Detail(ctx context.Context, userID, financialYear string) (model.CGTOverview, error) {
	fy, err := cgt.ParseFinancialYear(financialYear)
	if err != nil {
		return model.CGTOverview{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidFinancialYear, err)
	}

	rep, err := s.Report(ctx, userID)
	if err != nil {
		return model.CGTOverview{}, err
	}

	detail, ok := s.projector.Detail(rep, fy)
	if !ok {
		return model.CGTOverview{}, fmt.Errorf("%w: %s", apperrors.ErrFinancialYearNotFound, fy)
	}
	return detail, nil
}

// Invalidate drops the cached report of a user.
func (s *ReportService) Invalidate(userID string) {
	s.cache.Delete(userID)
}

// WarmAll recomputes every user's report into the cache. A user whose
// report fails is logged and skipped. It returns how many reports are warm.
func (s *ReportService) WarmAll(ctx context.Context) (int, error) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	warmed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if _, err := s.Report(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to warm CGT report")
			continue
		}
		warmed++
	}
	return warmed, nil
}

// fingerprint hashes every field the engine reads, in calculation order.
func fingerprint(txs []model.Transaction) string {
	h := sha256.New()
	for _, t := range txs {
		for _, field := range []string{t.ID, t.Ticker, t.Action, t.Date, t.Time, strconv.FormatInt(t.Quantity, 10), t.Price, t.Value, t.Fee} {
			h.Write([]byte(field))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}
