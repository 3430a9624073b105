package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/service"
)

func newAuditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report stored duplicates and uncategorized transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			maint := service.NewMaintenance(a.log, a.txns)
			report, err := maint.Audit(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("uncategorized transactions: %d\n", report.Uncategorized)
			fmt.Printf("duplicate groups:           %d\n", len(report.DuplicateGroups))
			for _, g := range report.DuplicateGroups {
				origID := "-"
				if g.OriginalID != nil {
					origID = *g.OriginalID
				}
				fmt.Printf("  amount %s original_id %s: %d transactions (%s)\n",
					g.Amount.String(), origID, g.Count, strings.Join(g.IDs, ", "))
			}
			return nil
		},
	}
}
