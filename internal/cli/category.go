package cli

import (
	"github.com/spf13/cobra"
)

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Category commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Category
			if err := client.Get(cmd.Context(), "/api/categories", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Category
			if err := client.Get(cmd.Context(), "/api/categories/"+args[0], &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	var createName string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Category
			if err := client.Post(cmd.Context(), "/api/categories", map[string]string{"name": createName}, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
	create.Flags().StringVar(&createName, "name", "", "Category name (required)")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	var renameTo string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a category you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Message string   `json:"message"`
				Updated Category `json:"updatedCategory"`
			}
			if err := client.Put(cmd.Context(), "/api/categories/"+args[0], map[string]string{"name": renameTo}, &result); err != nil {
				return err
			}
			output(cmd).Print(result.Updated)
			return nil
		},
	}
	update.Flags().StringVar(&renameTo, "name", "", "New name (required)")
	_ = update.MarkFlagRequired("name")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Message string `json:"message"`
			}
			if err := client.Delete(cmd.Context(), "/api/categories/"+args[0], &result); err != nil {
				return err
			}
			output(cmd).PrintMessage(result.Message)
			return nil
		},
	})

	return cmd
}
