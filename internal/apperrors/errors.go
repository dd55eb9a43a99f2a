package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist
	// or belongs to another user.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrFinancialYearNotFound indicates the user has no disposals in the requested financial year.
	ErrFinancialYearNotFound = errors.New("no CGT data for financial year")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidFinancialYear indicates a financial year that is not "YYYY-YYYY".
	ErrInvalidFinancialYear = errors.New("invalid financial year")

	// ErrInvalidExportFormat indicates an export format other than json or csv.
	ErrInvalidExportFormat = errors.New("invalid export format")

	ErrInvalidUsername = errors.New("username is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveUser         = errors.New("failed to retrieve user")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCalculateCGT         = errors.New("failed to calculate CGT report")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
	ErrFailedToExportTransactions   = errors.New("failed to export transactions")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrLedgerInconsistent indicates stored transactions cannot form a valid ledger,
	// such as a sell of more units than were bought.
	ErrLedgerInconsistent = errors.New("transaction history is inconsistent")

	// ErrContractNoteUnreadable indicates an encrypted contract note could not be decrypted
	// with the configured key.
	ErrContractNoteUnreadable = errors.New("contract note cannot be decrypted")
)
