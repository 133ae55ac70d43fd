package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/persona/internal/personality"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Work with question bank files",
}

var questionsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a question bank against the schema and version rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := personality.LoadBankFile(args[0])
		if err != nil {
			return err
		}

		multi := 0
		for _, q := range bank.Questions {
			if q.MultiSelect() {
				multi++
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: ok\n", args[0])
		if bank.Title != "" {
			fmt.Fprintf(out, "  title:     %s\n", bank.Title)
		}
		fmt.Fprintf(out, "  version:   %s\n", bank.Version)
		fmt.Fprintf(out, "  questions: %d (%d multi-select)\n", len(bank.Questions), multi)
		return nil
	},
}

func init() {
	questionsCmd.AddCommand(questionsValidateCmd)
}
