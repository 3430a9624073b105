package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/service"
)

func newRecategorizeCommand() *cobra.Command {
	var (
		uncategorizedOnly bool
		ids               []string
		fields            []string
	)

	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Re-run categorization over stored transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			recat := service.NewRecategorizer(a.log, a.txns, a.kws, a.accs, a.maps)
			report, err := recat.Recategorize(cmd.Context(), service.RecategorizeOptions{
				IDs:               ids,
				UncategorizedOnly: uncategorizedOnly,
				Fields:            fields,
			})
			if err != nil {
				return err
			}

			fmt.Printf("processed:     %d\n", report.Processed)
			fmt.Printf("updated:       %d\n", report.Updated)
			fmt.Printf("categorized:   %d\n", report.Categorized)
			fmt.Printf("uncategorized: %d\n", report.Uncategorized)
			fmt.Printf("overlap:       %d\n", report.Overlap)
			if report.SkippedNoFields > 0 {
				fmt.Printf("skipped (no field list): %d\n", report.SkippedNoFields)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&uncategorizedOnly, "uncategorized-only", false, "only process transactions without a subcategory")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "restrict to specific transaction IDs (repeatable)")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "override categorization fields (repeatable)")

	return cmd
}
