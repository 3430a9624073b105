package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/database/repository"
)

func newTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage transaction tags",
	}
	cmd.AddCommand(
		newTagsListCommand(), newTagsAddCommand(),
		newTagsAttachCommand(), newTagsDetachCommand(), newTagsShowCommand(),
	)
	return cmd
}

func newTagsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			tags, err := repository.NewTagRepo(a.db).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Printf("%s  %s\n", tag.ID, tag.Name)
			}
			return nil
		},
	}
}

func newTagsAddCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			tag := repository.Tag{ID: uuid.NewString(), Name: args[0], Description: description}
			if err := repository.NewTagRepo(a.db).Upsert(cmd.Context(), tag); err != nil {
				return err
			}
			fmt.Println(tag.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "tag description")
	return cmd
}

func newTagsAttachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <transaction-id> <tag-id>",
		Short: "Attach a tag to a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			return repository.NewTagRepo(a.db).Attach(cmd.Context(), args[0], args[1])
		},
	}
}

func newTagsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-id>",
		Short: "Show the tags attached to a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			tags, err := repository.NewTagRepo(a.db).ForTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Println(tag.Name)
			}
			return nil
		},
	}
}

func newTagsDetachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <transaction-id> <tag-id>",
		Short: "Detach a tag from a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			return repository.NewTagRepo(a.db).Detach(cmd.Context(), args[0], args[1])
		},
	}
}
