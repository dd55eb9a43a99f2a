package model

// ImportResult reports the outcome of a file import. Imports are all or
// nothing: when Errors is non-empty, Imported is 0.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// Export is the JSON export document of a user and their transactions.
type Export struct {
	User         User          `json:"user"`
	Transactions []Transaction `json:"transactions"`
}
