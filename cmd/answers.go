package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/persona/internal/backend"
)

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Print the saved answers for the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetInt("history")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := openEnv(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if history > 0 {
			events, err := e.client.RecentSaves(ctx, history)
			if err != nil {
				return notSignedIn(err)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No saves recorded.")
				return nil
			}
			fmt.Fprintf(out, "%-6s  %-19s  %-8s  %-7s  %-3s  %s\n", "Seq", "Timestamp", "Question", "Answers", "OK", "Attempt")
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, ev := range events {
				ok := "✓"
				if !ev.Success {
					ok = "✗"
				}
				fmt.Fprintf(out, "%-6d  %-19s  %-8d  %-7d  %-3s  %s\n",
					ev.Sequence,
					ev.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					ev.QuestionIndex+1,
					ev.AnswerCount,
					ok,
					ev.AttemptID,
				)
			}
			return nil
		}

		answers, err := e.client.SavedAnswers(ctx)
		if err != nil {
			return notSignedIn(err)
		}
		if answers == nil {
			fmt.Fprintln(out, "No answers saved.")
			return nil
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(answers)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the saved answers for the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := openEnv(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.client.ClearAnswers(cmd.Context()); err != nil {
			return notSignedIn(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved answers cleared.")
		return nil
	},
}

func notSignedIn(err error) error {
	if errors.Is(err, backend.ErrNoSession) {
		return fmt.Errorf("%w: run `persona login --user ID` first", err)
	}
	return err
}

func init() {
	answersCmd.Flags().Int("history", 0, "Show the last N save attempts instead of the answers")
}
