package commands

import (
	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/database/repository"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed default categories and mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := repository.SeedDefaults(cmd.Context(), a.db); err != nil {
				return err
			}
			a.log.Info().Str("database", a.cfg.Database.Path).Msg("initialized")
			return nil
		},
	}
}
