package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/persona/internal/config"
	"github.com/abhisek/persona/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "A personality quiz for the terminal",
	Long:  "Persona asks a handful of questions, saves your answers as you go, and tells you which trait you lean towards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PERSONA_DB env var)")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres URL for user records (overrides PERSONA_DATABASE_URL)")
	rootCmd.Flags().String("questions", "", "Question bank JSON file (overrides PERSONA_QUESTIONS)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(answersCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies flag overrides. Flags win
// over PERSONA_* variables, which win over .env.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if u, _ := cmd.Flags().GetString("database-url"); u != "" {
		cfg.DatabaseURL = u
	}
	if f := cmd.Flags().Lookup("questions"); f != nil && f.Value.String() != "" {
		cfg.QuestionsFile = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.UsesPostgres() {
		if err := store.EnsureDir(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return cfg, nil
}
