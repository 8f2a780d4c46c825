package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// parseOption reads "text=id1,id2" into a Choice
func parseOption(s string) (Choice, error) {
	text, ids, ok := strings.Cut(s, "=")
	text = strings.TrimSpace(text)
	if !ok || text == "" || strings.TrimSpace(ids) == "" {
		return Choice{}, fmt.Errorf("invalid option %q: want text=creatureId[,creatureId...]", s)
	}

	var creatureIDs []string
	for id := range strings.SplitSeq(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			creatureIDs = append(creatureIDs, id)
		}
	}
	return Choice{Text: text, CreatureIDs: creatureIDs}, nil
}

func parseOptions(raw []string) ([]Choice, error) {
	options := make([]Choice, 0, len(raw))
	for _, s := range raw {
		opt, err := parseOption(s)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

func newQuestionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "question",
		Aliases: []string{"questions"},
		Short:   "Quiz question commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Question
			if err := client.Get(cmd.Context(), "/api/questions", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Question
			if err := client.Get(cmd.Context(), "/api/questions/"+args[0], &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(newQuestionCreateCmd())
	cmd.AddCommand(newQuestionUpdateCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a question you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Message string `json:"message"`
			}
			if err := client.Delete(cmd.Context(), "/api/questions/"+args[0], &result); err != nil {
				return err
			}
			output(cmd).PrintMessage(result.Message)
			return nil
		},
	})

	return cmd
}

func newQuestionCreateCmd() *cobra.Command {
	var (
		text    string
		options []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a quiz question",
		Example: `  mythctl question create --text "Where would you rather live?" \
    --option "By a river=<kappaId>" --option "On a mountain=<tenguId>"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			choices, err := parseOptions(options)
			if err != nil {
				return err
			}

			var result Question
			body := map[string]any{"text": text, "options": choices}
			if err := client.Post(cmd.Context(), "/api/questions", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Question text (required)")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Answer as text=creatureId[,creatureId...] (repeat, at least two)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newQuestionUpdateCmd() *cobra.Command {
	var (
		text    string
		options []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a question you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if cmd.Flags().Changed("text") {
				body["text"] = text
			}
			if cmd.Flags().Changed("option") {
				choices, err := parseOptions(options)
				if err != nil {
					return err
				}
				body["options"] = choices
			}
			if len(body) == 0 {
				return fmt.Errorf("nothing to update: set --text or --option")
			}

			var result struct {
				Message string   `json:"message"`
				Updated Question `json:"updated"`
			}
			if err := client.Put(cmd.Context(), "/api/questions/"+args[0], body, &result); err != nil {
				return err
			}
			output(cmd).Print(result.Updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New question text")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Replacement answers as text=creatureId[,creatureId...]")

	return cmd
}
