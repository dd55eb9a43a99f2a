package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/notecrypt"
)

const transactionColumns = `id, user_id, date, time, action, ticker, quantity, price, value, fee, contract_note, created_at`

// TransactionRepository provides data access methods for the stock_transaction table.
// Contract notes pass through the sealer on the way in and out.
type TransactionRepository struct {
	db    *sql.DB
	tx    *sql.Tx
	notes *notecrypt.Sealer
}

// NewTransactionRepository creates a new TransactionRepository. notes may be nil,
// in which case contract notes are stored as given.
func NewTransactionRepository(db *sql.DB, notes *notecrypt.Sealer) *TransactionRepository {
	return &TransactionRepository{db: db, notes: notes}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db:    r.db,
		tx:    tx,
		notes: r.notes,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// List returns a user's transactions matching the filter, ordered by
// date, time and creation.
func (r *TransactionRepository) List(ctx context.Context, userID string, filter model.TransactionFilter) ([]model.Transaction, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Ticker != "" {
		conditions = append(conditions, "ticker = ?")
		args = append(args, strings.ToUpper(filter.Ticker))
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, strings.ToLower(filter.Action))
	}
	if filter.From != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To)
	}

	//nolint:gosec // G202: conditions are fixed strings, values are bound parameters
	query := `
		SELECT ` + transactionColumns + `
		FROM stock_transaction
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY date ASC, time ASC, rowid ASC
	`
	return r.query(ctx, query, args...)
}

// ListForCalculation returns every transaction of a user in creation order,
// which is the tiebreak the CGT engine needs for same-instant trades.
func (r *TransactionRepository) ListForCalculation(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM stock_transaction
		WHERE user_id = ?
		ORDER BY rowid ASC
	`
	return r.query(ctx, query, userID)
}

// Get retrieves one transaction owned by userID.
// Returns ErrTransactionNotFound if it does not exist or belongs to someone else.
func (r *TransactionRepository) Get(ctx context.Context, userID, id string) (model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM stock_transaction
		WHERE user_id = ? AND id = ?
	`
	txs, err := r.query(ctx, query, userID, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if len(txs) == 0 {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return txs[0], nil
}

// Insert stores one transaction.
func (r *TransactionRepository) Insert(ctx context.Context, t model.Transaction) error {
	return r.insert(ctx, r.getQuerier(), t)
}

// InsertMany stores transactions in order inside a single database
// transaction, so either all of them are written or none are. When the
// repository is already scoped with WithTx, the caller owns commit and rollback.
func (r *TransactionRepository) InsertMany(ctx context.Context, txs []model.Transaction) error {
	if r.tx != nil {
		for _, t := range txs {
			if err := r.insert(ctx, r.tx, t); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range txs {
		if err := r.insert(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) insert(ctx context.Context, q querier, t model.Transaction) error {
	var note sql.NullString
	if t.ContractNote != nil {
		sealed, err := r.notes.Seal(*t.ContractNote)
		if err != nil {
			return err
		}
		note = sql.NullString{String: sealed, Valid: true}
	}

	query := `
		INSERT INTO stock_transaction (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		t.ID, t.UserID, t.Date, t.Time, t.Action, t.Ticker, t.Quantity,
		t.Price, t.Value, t.Fee, note, formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// Delete removes one transaction owned by userID.
// Returns ErrTransactionNotFound if nothing was deleted.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM stock_transaction WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	txs := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var note sql.NullString
		var createdAt string

		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Date,
			&t.Time,
			&t.Action,
			&t.Ticker,
			&t.Quantity,
			&t.Price,
			&t.Value,
			&t.Fee,
			&note,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock_transaction results: %w", err)
		}

		if note.Valid {
			opened, err := r.notes.Open(note.String)
			if err != nil {
				if errors.Is(err, notecrypt.ErrUnreadable) {
					return nil, fmt.Errorf("transaction %s: %w", t.ID, apperrors.ErrContractNoteUnreadable)
				}
				return nil, err
			}
			t.ContractNote = &opened
		}

		if t.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}

	return txs, nil
}
