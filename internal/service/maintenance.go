package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jsykora/kasa/internal/database/repository"
)

// Maintenance surfaces data-health signals over the stored transactions:
// duplicate groups that slipped past import-time detection and the count of
// rows still awaiting categorization.
type Maintenance struct {
	log  zerolog.Logger
	txns *repository.TransactionRepo
}

func NewMaintenance(log zerolog.Logger, txns *repository.TransactionRepo) *Maintenance {
	return &Maintenance{log: log, txns: txns}
}

// AuditReport is a read-only snapshot; nothing in the store changes.
type AuditReport struct {
	DuplicateGroups []repository.DuplicateGroup
	Uncategorized   int
}

// Audit reports stored transactions sharing (amount, original_id) and the
// number of uncategorized transactions.
func (s *Maintenance) Audit(ctx context.Context) (*AuditReport, error) {
	groups, err := s.txns.DuplicateGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect duplicate groups: %w", err)
	}
	uncategorized, err := s.txns.CountUncategorized(ctx)
	if err != nil {
		return nil, fmt.Errorf("count uncategorized: %w", err)
	}

	s.log.Debug().
		Int("duplicate_groups", len(groups)).
		Int("uncategorized", uncategorized).
		Msg("audit finished")

	return &AuditReport{DuplicateGroups: groups, Uncategorized: uncategorized}, nil
}
