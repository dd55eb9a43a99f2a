package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/repository"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	user := testutil.NewUser().Build(t, db)
//	alice := testutil.NewUser().WithUsername("alice").Build(t, db)
type UserBuilder struct {
	ID       string
	Username string
}

// NewUser creates a UserBuilder with a unique username.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:       MakeID(),
		Username: MakeUsername("user"),
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	user := model.User{
		ID:        b.ID,
		Username:  b.Username,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := repository.NewUserRepository(db).Insert(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateUser creates a user with the given username.
func CreateUser(t *testing.T, db *sql.DB, username string) model.User {
	t.Helper()
	return NewUser().WithUsername(username).Build(t, db)
}

// TransactionBuilder provides a fluent interface for creating test transactions.
// Defaults to a buy of 100 units at 10.00 with no fee on 2023-01-01.
//
// Example usage:
//
//	testutil.NewTransaction(user.ID).WithTicker("BHP").Buy().
//	    WithDate("2022-07-01").WithQuantity(100).WithPrice("10").Build(t, db)
//	testutil.NewTransaction(user.ID).WithTicker("BHP").Sell().
//	    WithDate("2023-08-01").WithQuantity(100).WithPrice("20").Build(t, db)
type TransactionBuilder struct {
	ID           string
	UserID       string
	Date         string
	Time         string
	Action       string
	Ticker       string
	Quantity     int64
	Price        string
	Value        string
	Fee          string
	ContractNote *string
}

// NewTransaction creates a TransactionBuilder for the given user.
func NewTransaction(userID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:       MakeID(),
		UserID:   userID,
		Date:     "2023-01-01",
		Time:     "00:00:00",
		Action:   "buy",
		Ticker:   "TEST",
		Quantity: 100,
		Price:    "10",
		Fee:      "0",
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithTicker sets the ticker.
func (b *TransactionBuilder) WithTicker(ticker string) *TransactionBuilder {
	b.Ticker = ticker
	return b
}

// Buy makes the transaction a buy.
func (b *TransactionBuilder) Buy() *TransactionBuilder {
	b.Action = "buy"
	return b
}

// Sell makes the transaction a sell.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Action = "sell"
	return b
}

// WithDate sets the trade date (YYYY-MM-DD).
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// WithTime sets the trade time (HH:MM:SS).
func (b *TransactionBuilder) WithTime(clock string) *TransactionBuilder {
	b.Time = clock
	return b
}

// WithQuantity sets the number of units.
func (b *TransactionBuilder) WithQuantity(quantity int64) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the unit price.
func (b *TransactionBuilder) WithPrice(price string) *TransactionBuilder {
	b.Price = price
	return b
}

// WithValue sets the gross value. Unset means price times quantity.
func (b *TransactionBuilder) WithValue(value string) *TransactionBuilder {
	b.Value = value
	return b
}

// WithFee sets the brokerage.
func (b *TransactionBuilder) WithFee(fee string) *TransactionBuilder {
	b.Fee = fee
	return b
}

// WithContractNote sets the contract note reference.
func (b *TransactionBuilder) WithContractNote(note string) *TransactionBuilder {
	b.ContractNote = &note
	return b
}

// Build creates the transaction in the database and returns it. The contract
// note is stored in plain text.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	value := b.Value
	if value == "" {
		value = mulDecimal(t, b.Price, b.Quantity)
	}

	tx := model.Transaction{
		ID:           b.ID,
		UserID:       b.UserID,
		Date:         b.Date,
		Time:         b.Time,
		Action:       b.Action,
		Ticker:       b.Ticker,
		Quantity:     b.Quantity,
		Price:        b.Price,
		Value:        value,
		Fee:          b.Fee,
		ContractNote: b.ContractNote,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if err := repository.NewTransactionRepository(db, nil).Insert(context.Background(), tx); err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return tx
}
