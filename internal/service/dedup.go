package service

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jsykora/kasa/internal/database/repository"
)

// DuplicateTier classifies how confident a duplicate match is.
type DuplicateTier int

const (
	// NotDuplicate means no stored transaction matched.
	NotDuplicate DuplicateTier = iota
	// AlreadyImported is an exact match on (original_id, date, amount).
	// Always skipped.
	AlreadyImported
	// PossibleDuplicate is a heuristic match on (date, amount, counterparty
	// account, variable symbol). Skipped but reported separately for manual
	// review.
	PossibleDuplicate
)

// DuplicateMatch is the detector's verdict for one candidate row.
type DuplicateMatch struct {
	Tier     DuplicateTier
	Existing *repository.Transaction
	// NoteSimilarity is a 0..1 levenshtein ratio over note text, attached
	// to possible duplicates as a review aid. It never changes the tier.
	NoteSimilarity float64
}

// DuplicateDetector answers "is this row already stored?" against a
// snapshot of existing transactions indexed once per batch.
type DuplicateDetector struct {
	byOriginal map[string]*repository.Transaction
	byFuzzy    map[string]*repository.Transaction
}

// NewDuplicateDetector indexes the existing transactions. The slice is the
// batch snapshot; rows created during the batch are not re-indexed, matching
// the one-bulk-write-per-batch model.
func NewDuplicateDetector(existing []repository.Transaction) *DuplicateDetector {
	d := &DuplicateDetector{
		byOriginal: make(map[string]*repository.Transaction),
		byFuzzy:    make(map[string]*repository.Transaction),
	}
	for i := range existing {
		t := &existing[i]
		if t.OriginalID != nil && *t.OriginalID != "" {
			d.byOriginal[exactKey(*t.OriginalID, t.DateOfTransaction.Format(dateLayout), t.Amount.String())] = t
		}
		d.byFuzzy[fuzzyKey(
			t.DateOfTransaction.Format(dateLayout), t.Amount.String(),
			t.CounterpartyAccountNumber, t.VariableSymbol,
		)] = t
	}
	return d
}

const dateLayout = "2006-01-02"

// Check classifies one extracted row. A row with an original ID is only
// checked against the exact tier; the fuzzy tier exists for exports that
// carry no bank-side identifier.
func (d *DuplicateDetector) Check(data TransactionData) DuplicateMatch {
	date := data.DateOfTransaction.Format(dateLayout)
	amount := data.Amount.String()

	if data.OriginalID != "" {
		if existing, ok := d.byOriginal[exactKey(data.OriginalID, date, amount)]; ok {
			return DuplicateMatch{Tier: AlreadyImported, Existing: existing}
		}
		return DuplicateMatch{Tier: NotDuplicate}
	}

	if existing, ok := d.byFuzzy[fuzzyKey(date, amount, data.CounterpartyAccountNumber, data.VariableSymbol)]; ok {
		return DuplicateMatch{
			Tier:           PossibleDuplicate,
			Existing:       existing,
			NoteSimilarity: noteSimilarity(data, *existing),
		}
	}
	return DuplicateMatch{Tier: NotDuplicate}
}

func exactKey(originalID, date, amount string) string {
	return originalID + "|" + date + "|" + amount
}

func fuzzyKey(date, amount, cpAccount, variableSymbol string) string {
	return date + "|" + amount + "|" + strings.TrimSpace(cpAccount) + "|" + strings.TrimSpace(variableSymbol)
}

// noteSimilarity computes a levenshtein ratio over the concatenated note
// fields of the candidate and the stored transaction.
func noteSimilarity(data TransactionData, existing repository.Transaction) float64 {
	a := noteText(data.CounterpartyNote, data.MyNote, data.OtherNote)
	b := noteText(existing.CounterpartyNote, existing.MyNote, existing.OtherNote)
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1 - float64(dist)/float64(maxLen)
}

func noteText(parts ...string) string {
	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			joined = append(joined, p)
		}
	}
	return strings.ToUpper(strings.Join(joined, " "))
}
