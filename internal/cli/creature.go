package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// creatureFlags are shared by create and update. Only flags the user set
// are sent, so update is partial.
type creatureFlags struct {
	name, translation, description string
	power                          int
	strengths, weaknesses          string
	funFact, imageURL, category    string
}

func (f *creatureFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Creature name")
	fs.StringVar(&f.translation, "translation", "", "English translation of the name")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.IntVar(&f.power, "power", 0, "Power level (1-100)")
	fs.StringVar(&f.strengths, "strengths", "", "Strengths")
	fs.StringVar(&f.weaknesses, "weaknesses", "", "Weaknesses")
	fs.StringVar(&f.funFact, "fun-fact", "", "Fun fact")
	fs.StringVar(&f.imageURL, "image", "", "Image URL")
	fs.StringVar(&f.category, "category", "", "Category ID")
}

func (f *creatureFlags) body(fs *pflag.FlagSet) map[string]any {
	fields := map[string]struct {
		key   string
		value any
	}{
		"name":        {"name", f.name},
		"translation": {"translation", f.translation},
		"description": {"description", f.description},
		"power":       {"powerLevel", f.power},
		"strengths":   {"strengths", f.strengths},
		"weaknesses":  {"weaknesses", f.weaknesses},
		"fun-fact":    {"funFact", f.funFact},
		"image":       {"imageURL", f.imageURL},
		"category":    {"category", f.category},
	}

	body := make(map[string]any)
	for flag, field := range fields {
		if fs.Changed(flag) {
			body[field.key] = field.value
		}
	}
	return body
}

func newCreatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creature",
		Aliases: []string{"creatures"},
		Short:   "Creature commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all creatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Creature
			if err := client.Get(cmd.Context(), "/api/creatures", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one creature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Creature
			if err := client.Get(cmd.Context(), "/api/creatures/"+args[0], &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(newCreatureCreateCmd())
	cmd.AddCommand(newCreatureUpdateCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a creature you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Message string   `json:"message"`
				Deleted Creature `json:"deletedCreature"`
			}
			if err := client.Delete(cmd.Context(), "/api/creatures/"+args[0], &result); err != nil {
				return err
			}
			output(cmd).PrintMessage(result.Message)
			return nil
		},
	})

	return cmd
}

func newCreatureCreateCmd() *cobra.Command {
	var flags creatureFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a creature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Creature
			if err := client.Post(cmd.Context(), "/api/creatures", flags.body(cmd.Flags()), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	flags.register(cmd.Flags())
	for _, name := range []string{"name", "translation", "description", "power", "strengths", "weaknesses", "fun-fact", "image"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newCreatureUpdateCmd() *cobra.Command {
	var flags creatureFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a creature you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := flags.body(cmd.Flags())
			if len(body) == 0 {
				return fmt.Errorf("nothing to update: set at least one field flag")
			}

			var result struct {
				Message string   `json:"message"`
				Updated Creature `json:"updatedCreature"`
			}
			if err := client.Put(cmd.Context(), "/api/creatures/"+args[0], body, &result); err != nil {
				return err
			}
			output(cmd).Print(result.Updated)
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}
