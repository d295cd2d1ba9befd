package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrFundNotFound indicates that no transactions exist for the given fund code.
	ErrFundNotFound = errors.New("fund not found")

	// ErrSyncNotConfigured indicates that no remote sync credential has been stored.
	ErrSyncNotConfigured = errors.New("cloud sync is not configured")

	// ErrRemoteDocumentNotFound indicates the remote store holds no document yet.
	ErrRemoteDocumentNotFound = errors.New("remote document not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInsufficientShares indicates that a sell transaction cannot be recorded
	// because the fund does not currently hold enough shares.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInvalidTransactionType indicates a transaction type other than buy or sell.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrNegativeFee indicates a fee correction with a negative value.
	ErrNegativeFee = errors.New("fee cannot be negative")

	// ErrInvalidPrice indicates a non-positive price override.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyFundCode indicates a missing fund code on a request.
	ErrEmptyFundCode = errors.New("fund code cannot be empty")
)

// Transfer errors represent failures at the import/export boundary.
// Import errors are raised before any store mutation, so a rejected
// bundle never corrupts local state.
var (
	// ErrInvalidBundle indicates that an import payload is not a JSON object.
	ErrInvalidBundle = errors.New("invalid data bundle")

	// ErrMissingBundleField indicates a bundle without one of the required fields.
	ErrMissingBundleField = errors.New("missing required bundle field")

	// ErrTransactionsNotArray indicates a bundle whose transaction list is not an array.
	ErrTransactionsNotArray = errors.New("transactions must be an array")

	// ErrMissingWorksheet indicates a workbook without the transactions sheet.
	ErrMissingWorksheet = errors.New("missing required worksheet")

	// ErrInvalidWorksheetHeader indicates a transactions sheet with unexpected columns.
	ErrInvalidWorksheetHeader = errors.New("invalid worksheet header")
)

// Operation failure errors represent system-level failures.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToImportData           = errors.New("failed to import data")
	ErrFailedToExportData           = errors.New("failed to export data")
	ErrSyncUploadFailed             = errors.New("failed to upload data to cloud")
	ErrSyncDownloadFailed           = errors.New("failed to download data from cloud")
)
