package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jsykora/kasa/internal/database/repository"
)

// Recategorizer re-runs the categorization engine over stored transactions,
// typically after the keyword set changed.
type Recategorizer struct {
	log      zerolog.Logger
	txns     *repository.TransactionRepo
	keywords *repository.KeywordRepo
	accounts *repository.BankAccountRepo
	mappings *repository.CSVMappingRepo
}

func NewRecategorizer(
	log zerolog.Logger,
	txns *repository.TransactionRepo,
	keywords *repository.KeywordRepo,
	accounts *repository.BankAccountRepo,
	mappings *repository.CSVMappingRepo,
) *Recategorizer {
	return &Recategorizer{log: log, txns: txns, keywords: keywords, accounts: accounts, mappings: mappings}
}

// RecategorizeOptions selects which transactions to process and which
// fields feed the categorization string.
type RecategorizeOptions struct {
	// IDs restricts processing to the listed transactions. Empty means all.
	IDs []string
	// UncategorizedOnly restricts processing to transactions without a
	// subcategory. Ignored transactions are never selected by it.
	UncategorizedOnly bool
	// Fields overrides the per-account categorization field list. Names
	// outside the allowed set reject the whole run before any processing.
	Fields []string
}

// RecategorizeReport summarizes one recategorization run.
type RecategorizeReport struct {
	Processed       int
	Updated         int
	Categorized     int
	Uncategorized   int
	Overlap         int
	SelfTransfers   int
	SkippedNoFields int
}

// Recategorize re-resolves the selected transactions against the current
// keyword set and rewrites only the rows whose categorization actually
// changed, in a single database transaction. Running it twice in a row is
// a no-op the second time.
//
// Overlap rows are counted but left untouched; whatever categorization
// they carry stays until resolved manually or by a changed keyword set.
func (s *Recategorizer) Recategorize(ctx context.Context, opts RecategorizeOptions) (*RecategorizeReport, error) {
	if len(opts.Fields) > 0 {
		if err := ValidateCategorizationFields(opts.Fields); err != nil {
			return nil, err
		}
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

	fieldsByAccount, err := s.loadFieldLists(ctx)
	if err != nil {
		return nil, err
	}

	txns, err := s.txns.List(ctx, repository.TransactionFilters{
		IDs:               opts.IDs,
		UncategorizedOnly: opts.UncategorizedOnly,
		IncludeIgnored:    !opts.UncategorizedOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	report := &RecategorizeReport{}
	var updates []repository.CategorizationUpdate

	for _, t := range txns {
		report.Processed++

		fields := opts.Fields
		if len(fields) == 0 {
			fields = fieldsByAccount[t.BankAccountID]
		}
		if len(fields) == 0 {
			report.SkippedNoFields++
			continue
		}

		data := DataFromTransaction(t)
		matched := matcher.Match(BuildCategorizationString(data, fields))
		result := Resolve(matched, data, ownAccounts)

		switch {
		case ownAccounts.Contains(data.CounterpartyAccountNumber):
			report.SelfTransfers++
		case result.Overlap:
			report.Overlap++
			continue
		case result.Uncategorized:
			report.Uncategorized++
		default:
			report.Categorized++
		}

		if tripleChanged(t, result) {
			updates = append(updates, repository.CategorizationUpdate{
				TransactionID:      t.ID,
				SubcategoryID:      result.SubcategoryID,
				WantNeedInvestment: result.WantNeedInvestment,
				Ignore:             result.Ignore,
			})
			report.Updated++
		}
	}

	if err := s.txns.BulkUpdateCategorization(ctx, updates); err != nil {
		return nil, fmt.Errorf("persist categorization updates: %w", err)
	}

	s.log.Info().
		Int("processed", report.Processed).
		Int("updated", report.Updated).
		Int("uncategorized", report.Uncategorized).
		Int("overlap", report.Overlap).
		Int("skipped_no_fields", report.SkippedNoFields).
		Msg("recategorization finished")

	return report, nil
}

// loadFieldLists maps each bank account to its mapping's categorization
// field list. Accounts without a mapping, or with a mapping that names no
// fields, get no entry.
func (s *Recategorizer) loadFieldLists(ctx context.Context) (map[string][]string, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank accounts: %w", err)
	}
	mappings, err := s.mappings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load csv mappings: %w", err)
	}

	fieldsByMapping := make(map[string][]string, len(mappings))
	for _, m := range mappings {
		if len(m.CategorizationFields) > 0 {
			fieldsByMapping[m.ID] = m.CategorizationFields
		}
	}

	out := make(map[string][]string, len(accounts))
	for _, a := range accounts {
		if a.CSVMappingID == nil {
			continue
		}
		if fields, ok := fieldsByMapping[*a.CSVMappingID]; ok {
			out[a.ID] = fields
		}
	}
	return out, nil
}

// tripleChanged reports whether the resolver outcome differs from what the
// transaction already carries.
func tripleChanged(t repository.Transaction, r CategorizationResult) bool {
	if !samePtr(t.SubcategoryID, r.SubcategoryID) {
		return true
	}
	return t.WantNeedInvestment != r.WantNeedInvestment || t.Ignore != r.Ignore
}
