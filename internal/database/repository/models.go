package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Want/need/investment classification values. Empty string means unset.
const (
	WNIWant       = "want"
	WNINeed       = "need"
	WNIInvestment = "investment"
	WNIOther      = "other"
)

// Category represents a top-level spending category.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Subcategory is the categorization target referenced by keywords and
// transactions.
type Subcategory struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
}

// Tag represents a free-form label attachable to transactions.
type Tag struct {
	ID          string
	Name        string
	Description string
}

// KeywordRules holds the matching criteria of one keyword. Include terms
// must all appear in the categorization string; any exclude term vetoes
// the match. An empty include list makes the keyword inert.
type KeywordRules struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// Keyword is a stored categorization rule.
type Keyword struct {
	ID                 string
	Description        string
	Rules              KeywordRules
	SubcategoryID      *string
	WantNeedInvestment string
	Ignore             bool
}

// ColumnMap names the CSV column holding each transaction field. An empty
// value means the field is not present in this bank's export.
type ColumnMap struct {
	OriginalID                string `json:"original_id,omitempty"`
	DateOfTransaction         string `json:"date_of_transaction,omitempty"`
	DateOfSubmission          string `json:"date_of_submission,omitempty"`
	Amount                    string `json:"amount,omitempty"`
	Currency                  string `json:"currency,omitempty"`
	CounterpartyAccountNumber string `json:"counterparty_account_number,omitempty"`
	CounterpartyBankCode      string `json:"counterparty_bank_code,omitempty"`
	CounterpartyName          string `json:"counterparty_name,omitempty"`
	TransactionType           string `json:"transaction_type,omitempty"`
	VariableSymbol            string `json:"variable_symbol,omitempty"`
	SpecificSymbol            string `json:"specific_symbol,omitempty"`
	ConstantSymbol            string `json:"constant_symbol,omitempty"`
	CounterpartyNote          string `json:"counterparty_note,omitempty"`
	MyNote                    string `json:"my_note,omitempty"`
}

// CSVMapping describes how to parse one bank's CSV export.
type CSVMapping struct {
	ID                   string
	Name                 string
	Encoding             string
	Delimiter            string
	HeaderRow            int
	DateFormat           string // Go layout for date_of_transaction
	SubmissionDateFormat string // Go layout for date_of_submission
	DefaultCurrency      string
	Columns              ColumnMap
	OtherNoteColumns     []string
	CategorizationFields []string
}

// BankAccount identifies one of the user's own accounts. Account numbers
// double as the self-transfer detection set.
type BankAccount struct {
	ID            string
	AccountName   string
	AccountNumber string
	OwnerCount    int
	CSVMappingID  *string
}

// Transaction is the categorized financial record.
type Transaction struct {
	ID                        string
	OriginalID                *string
	BankAccountID             string
	DateOfTransaction         time.Time
	DateOfSubmission          *time.Time
	Amount                    decimal.Decimal
	Currency                  string
	CounterpartyAccountNumber string
	CounterpartyName          string
	TransactionType           string
	VariableSymbol            string
	SpecificSymbol            string
	ConstantSymbol            string
	CounterpartyNote          string
	MyNote                    string
	OtherNote                 string
	SubcategoryID             *string
	WantNeedInvestment        string
	Ignore                    bool
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// CategorizationUpdate carries the changed categorization fields of one
// transaction for a bulk update.
type CategorizationUpdate struct {
	TransactionID      string
	SubcategoryID      *string
	WantNeedInvestment string
	Ignore             bool
}
