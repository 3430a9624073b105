package service

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsykora/kasa/internal/database/repository"
)

// Field names allowed in a mapping's categorization_fields list.
const (
	FieldMyNote                    = "my_note"
	FieldOtherNote                 = "other_note"
	FieldCounterpartyNote          = "counterparty_note"
	FieldCounterpartyName          = "counterparty_name"
	FieldCounterpartyAccountNumber = "counterparty_account_number"
	FieldTransactionType           = "transaction_type"
	FieldVariableSymbol            = "variable_symbol"
	FieldSpecificSymbol            = "specific_symbol"
	FieldConstantSymbol            = "constant_symbol"
)

// AllCategorizationFields is the full allowed set, in the default order used
// when a caller supplies no field list.
var AllCategorizationFields = []string{
	FieldMyNote,
	FieldOtherNote,
	FieldCounterpartyNote,
	FieldCounterpartyName,
	FieldCounterpartyAccountNumber,
	FieldTransactionType,
	FieldVariableSymbol,
	FieldSpecificSymbol,
	FieldConstantSymbol,
}

// TransactionData is the transient record produced by the field extractor
// before a Transaction is materialized. It carries everything the
// categorization engine needs and nothing it does not.
type TransactionData struct {
	OriginalID                string
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
}

// Field returns the named categorization field's value, or "" for names
// outside the allowed set.
func (d TransactionData) Field(name string) string {
	switch name {
	case FieldMyNote:
		return d.MyNote
	case FieldOtherNote:
		return d.OtherNote
	case FieldCounterpartyNote:
		return d.CounterpartyNote
	case FieldCounterpartyName:
		return d.CounterpartyName
	case FieldCounterpartyAccountNumber:
		return d.CounterpartyAccountNumber
	case FieldTransactionType:
		return d.TransactionType
	case FieldVariableSymbol:
		return d.VariableSymbol
	case FieldSpecificSymbol:
		return d.SpecificSymbol
	case FieldConstantSymbol:
		return d.ConstantSymbol
	}
	return ""
}

// BuildCategorizationString concatenates the non-empty values of the listed
// fields, in list order, joined with " | ". Empty fields are skipped rather
// than represented as empty segments. No normalization happens here; the
// matcher normalizes.
func BuildCategorizationString(d TransactionData, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, name := range fields {
		if v := d.Field(name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

// normalizeTerm lowercases and removes all spaces, making matching case-
// and whitespace-insensitive.
func normalizeTerm(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

type compiledKeyword struct {
	keyword repository.Keyword
	include []string
	exclude []string
}

// KeywordMatcher evaluates categorization strings against a fixed keyword
// set. Include and exclude terms are normalized once at construction, not
// per row.
type KeywordMatcher struct {
	keywords []compiledKeyword
}

// NewKeywordMatcher compiles the keyword set. Iteration order is made
// deterministic by sorting on description then ID.
func NewKeywordMatcher(keywords []repository.Keyword) *KeywordMatcher {
	sorted := make([]repository.Keyword, len(keywords))
	copy(sorted, keywords)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Description != sorted[j].Description {
			return sorted[i].Description < sorted[j].Description
		}
		return sorted[i].ID < sorted[j].ID
	})

	compiled := make([]compiledKeyword, 0, len(sorted))
	for _, k := range sorted {
		ck := compiledKeyword{keyword: k}
		for _, term := range k.Rules.Include {
			if t := normalizeTerm(term); t != "" {
				ck.include = append(ck.include, t)
			}
		}
		for _, term := range k.Rules.Exclude {
			if t := normalizeTerm(term); t != "" {
				ck.exclude = append(ck.exclude, t)
			}
		}
		compiled = append(compiled, ck)
	}
	return &KeywordMatcher{keywords: compiled}
}

// Match returns the keywords whose include terms all appear in the
// categorization string and none of whose exclude terms do. A keyword with
// no include terms never matches; it is inert, not universal.
func (m *KeywordMatcher) Match(catString string) []repository.Keyword {
	normalized := normalizeTerm(catString)

	var matched []repository.Keyword
	for _, ck := range m.keywords {
		if len(ck.include) == 0 {
			continue
		}
		candidate := true
		for _, term := range ck.include {
			if !strings.Contains(normalized, term) {
				candidate = false
				break
			}
		}
		if !candidate {
			continue
		}
		vetoed := false
		for _, term := range ck.exclude {
			if strings.Contains(normalized, term) {
				vetoed = true
				break
			}
		}
		if !vetoed {
			matched = append(matched, ck.keyword)
		}
	}
	return matched
}

// OwnAccountSet holds the user's own account numbers, normalized for
// self-transfer comparison.
type OwnAccountSet map[string]struct{}

// NewOwnAccountSet normalizes the given account numbers. Blank entries are
// dropped.
func NewOwnAccountSet(numbers []string) OwnAccountSet {
	set := make(OwnAccountSet, len(numbers))
	for _, n := range numbers {
		if norm := normalizeTerm(strings.TrimSpace(n)); norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the normalized account number is in the set.
func (s OwnAccountSet) Contains(accountNumber string) bool {
	norm := normalizeTerm(strings.TrimSpace(accountNumber))
	if norm == "" {
		return false
	}
	_, ok := s[norm]
	return ok
}

// CategorizationResult is the resolver's output for one transaction.
// Uncategorized and Overlap are terminal classifications for human review,
// not errors.
type CategorizationResult struct {
	SubcategoryID      *string
	WantNeedInvestment string
	Ignore             bool
	Uncategorized      bool
	Overlap            bool
}

// Resolve decides a transaction's categorization from the matcher output.
// Priority order: a counterparty account owned by the user short-circuits
// everything and marks the transaction ignored; zero matches mean
// uncategorized; one match is adopted verbatim; multiple matches are
// adopted only when every matched keyword agrees on (subcategory,
// want_need_investment, ignore), otherwise the row is an overlap left for
// manual review. Pure function, never fails.
func Resolve(matched []repository.Keyword, data TransactionData, ownAccounts OwnAccountSet) CategorizationResult {
	if ownAccounts.Contains(data.CounterpartyAccountNumber) {
		return CategorizationResult{Ignore: true}
	}

	if len(matched) == 0 {
		return CategorizationResult{Uncategorized: true}
	}

	first := matched[0]
	for _, k := range matched[1:] {
		if !sameTriple(first, k) {
			return CategorizationResult{Overlap: true}
		}
	}
	return CategorizationResult{
		SubcategoryID:      first.SubcategoryID,
		WantNeedInvestment: first.WantNeedInvestment,
		Ignore:             first.Ignore,
	}
}

// sameTriple compares the categorization outcome of two keywords. The
// ignore flag participates in the comparison, so keywords that agree on
// subcategory but disagree on ignore still count as an overlap.
func sameTriple(a, b repository.Keyword) bool {
	if !samePtr(a.SubcategoryID, b.SubcategoryID) {
		return false
	}
	return a.WantNeedInvestment == b.WantNeedInvestment && a.Ignore == b.Ignore
}

func samePtr(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// ValidateCategorizationFields rejects field names outside the allowed set.
// Used to fail a recategorization request before any processing starts.
func ValidateCategorizationFields(fields []string) error {
	for _, name := range fields {
		if !isAllowedField(name) {
			return &UnknownFieldError{Field: name}
		}
	}
	return nil
}

func isAllowedField(name string) bool {
	for _, allowed := range AllCategorizationFields {
		if name == allowed {
			return true
		}
	}
	return false
}

// UnknownFieldError reports a categorization field name outside the allowed
// set. It is a configuration error: the whole operation is rejected.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return "unknown categorization field: " + e.Field
}
