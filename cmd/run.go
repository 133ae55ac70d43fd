package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/persona/internal/app"
	"github.com/abhisek/persona/internal/llm"
	"github.com/abhisek/persona/internal/personality"
	"github.com/abhisek/persona/internal/profile"
)

// runApp builds dependencies from the config and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := app.Options{
		Accounts:      e.accounts,
		Backend:       e.client,
		LoadQuestions: bankLoader(cfg.QuestionsFile),
		Logger:        e.logger,
		GraceDelay:    cfg.GraceDelay,
		ResultsDelay:  cfg.ResultsDelay,
		SaveEvery:     cfg.SaveEvery,
		SaveTimeout:   cfg.SaveTimeout,
	}

	provider, err := llm.NewProvider(cmd.Context(), llm.ConfigFromEnv(), e.events, e.logger)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		e.logger.Info("profile generation disabled", "reason", err)
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI profiles will be unavailable.")
	default:
		opts.Profiles = profile.NewService(provider, profile.DefaultConfig())
	}

	e.logger.Info("starting", "version", version, "postgres", cfg.UsesPostgres())
	return app.Run(opts)
}

func bankLoader(path string) func() (*personality.Bank, error) {
	if path == "" {
		return personality.DefaultBank
	}
	return func() (*personality.Bank, error) {
		return personality.LoadBankFile(path)
	}
}
