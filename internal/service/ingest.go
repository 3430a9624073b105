package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jsykora/kasa/internal/database/repository"
)

// Importer runs the full import pipeline for one bank account: extract,
// deduplicate, categorize, persist.
type Importer struct {
	// FallbackCurrency fills in when a mapping declares no default
	// currency of its own.
	FallbackCurrency string

	log      zerolog.Logger
	txns     *repository.TransactionRepo
	keywords *repository.KeywordRepo
	accounts *repository.BankAccountRepo
	mappings *repository.CSVMappingRepo
}

func NewImporter(
	log zerolog.Logger,
	txns *repository.TransactionRepo,
	keywords *repository.KeywordRepo,
	accounts *repository.BankAccountRepo,
	mappings *repository.CSVMappingRepo,
) *Importer {
	return &Importer{log: log, txns: txns, keywords: keywords, accounts: accounts, mappings: mappings}
}

// RowError records a row that failed extraction, with the raw cells kept
// for manual review. The row index is 1-based and counts data rows, not
// file lines.
type RowError struct {
	Row int
	Err string
	Raw RawRow
}

// PossibleDuplicateRow records a skipped row whose (date, amount,
// counterparty account, variable symbol) matched a stored transaction.
type PossibleDuplicateRow struct {
	Row            int
	ExistingID     string
	NoteSimilarity float64
}

// ImportReport summarizes one import batch. Every input row lands in
// exactly one of: created, already imported, possible duplicate, errored.
type ImportReport struct {
	TotalRows          int
	Created            int
	AlreadyImported    int
	PossibleDuplicates []PossibleDuplicateRow
	RowErrors          []RowError

	// Breakdown of created rows by categorization outcome.
	Categorized   int
	Uncategorized int
	Overlap       int
	SelfTransfers int

	CreatedIDs []string
}

// Reconciles reports whether every input row is accounted for. A false
// return indicates a pipeline bug, not bad input.
func (r *ImportReport) Reconciles() bool {
	return r.Created+r.AlreadyImported+len(r.PossibleDuplicates)+len(r.RowErrors) == r.TotalRows
}

// Import processes the decoded rows of one CSV file against the given bank
// account. Keywords, own accounts, the account's mapping and the existing
// transaction snapshot are loaded once up front; all accepted rows are
// persisted in a single database transaction at the end. A failed
// persistence leaves the store untouched.
func (s *Importer) Import(ctx context.Context, bankAccountID string, rows []RawRow) (*ImportReport, error) {
	account, err := s.accounts.Get(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("load bank account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("bank account %s not found", bankAccountID)
	}
	if account.CSVMappingID == nil {
		return nil, fmt.Errorf("bank account %s has no csv mapping configured", account.AccountName)
	}
	mapping, err := s.mappings.Get(ctx, *account.CSVMappingID)
	if err != nil {
		return nil, fmt.Errorf("load csv mapping: %w", err)
	}
	if mapping == nil {
		return nil, fmt.Errorf("csv mapping %s not found", *account.CSVMappingID)
	}
	if mapping.DefaultCurrency == "" {
		mapping.DefaultCurrency = s.FallbackCurrency
	}

	fields := mapping.CategorizationFields
	if len(fields) == 0 {
		fields = AllCategorizationFields
	}
	if err := ValidateCategorizationFields(fields); err != nil {
		return nil, err
	}

	keywords, err := s.keywords.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}
	matcher := NewKeywordMatcher(keywords)

	ownNumbers, err := s.accounts.OwnAccountNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load own account numbers: %w", err)
	}
	ownAccounts := NewOwnAccountSet(ownNumbers)

	existing, err := s.txns.List(ctx, repository.TransactionFilters{IncludeIgnored: true})
	if err != nil {
		return nil, fmt.Errorf("load existing transactions: %w", err)
	}
	detector := NewDuplicateDetector(existing)

	report := &ImportReport{TotalRows: len(rows)}
	var toCreate []repository.Transaction

	for i, row := range rows {
		rowNum := i + 1

		data, err := ExtractTransactionData(row, *mapping)
		if err != nil {
			report.RowErrors = append(report.RowErrors, RowError{Row: rowNum, Err: err.Error(), Raw: row})
			continue
		}

		switch match := detector.Check(data); match.Tier {
		case AlreadyImported:
			report.AlreadyImported++
			continue
		case PossibleDuplicate:
			report.PossibleDuplicates = append(report.PossibleDuplicates, PossibleDuplicateRow{
				Row:            rowNum,
				ExistingID:     match.Existing.ID,
				NoteSimilarity: match.NoteSimilarity,
			})
			continue
		}

		matched := matcher.Match(BuildCategorizationString(data, fields))
		result := Resolve(matched, data, ownAccounts)

		txn := newTransaction(data, account.ID, result)
		toCreate = append(toCreate, txn)
		report.Created++
		report.CreatedIDs = append(report.CreatedIDs, txn.ID)

		switch {
		case ownAccounts.Contains(data.CounterpartyAccountNumber):
			report.SelfTransfers++
		case result.Overlap:
			report.Overlap++
		case result.Uncategorized:
			report.Uncategorized++
		default:
			report.Categorized++
		}
	}

	if err := s.txns.BulkCreate(ctx, toCreate); err != nil {
		// Nothing was persisted, but the classification work done so far
		// is still valid for reporting.
		return report, fmt.Errorf("persist batch: %w", err)
	}

	s.log.Info().
		Int("total", report.TotalRows).
		Int("created", report.Created).
		Int("already_imported", report.AlreadyImported).
		Int("possible_duplicates", len(report.PossibleDuplicates)).
		Int("errors", len(report.RowErrors)).
		Int("uncategorized", report.Uncategorized).
		Int("overlap", report.Overlap).
		Str("bank_account", account.AccountName).
		Msg("import finished")

	return report, nil
}

// newTransaction materializes an accepted row. Overlap and uncategorized
// rows persist with no subcategory; only resolved rows carry one.
func newTransaction(data TransactionData, bankAccountID string, result CategorizationResult) repository.Transaction {
	var originalID *string
	if data.OriginalID != "" {
		originalID = &data.OriginalID
	}
	return repository.Transaction{
		ID:                        uuid.NewString(),
		OriginalID:                originalID,
		BankAccountID:             bankAccountID,
		DateOfTransaction:         data.DateOfTransaction,
		DateOfSubmission:          data.DateOfSubmission,
		Amount:                    data.Amount,
		Currency:                  data.Currency,
		CounterpartyAccountNumber: data.CounterpartyAccountNumber,
		CounterpartyName:          data.CounterpartyName,
		TransactionType:           data.TransactionType,
		VariableSymbol:            data.VariableSymbol,
		SpecificSymbol:            data.SpecificSymbol,
		ConstantSymbol:            data.ConstantSymbol,
		CounterpartyNote:          data.CounterpartyNote,
		MyNote:                    data.MyNote,
		OtherNote:                 data.OtherNote,
		SubcategoryID:             result.SubcategoryID,
		WantNeedInvestment:        result.WantNeedInvestment,
		Ignore:                    result.Ignore,
	}
}
