package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/persona/internal/auth"
	"github.com/abhisek/persona/internal/backend"
	"github.com/abhisek/persona/internal/config"
	"github.com/abhisek/persona/internal/logging"
	"github.com/abhisek/persona/internal/store"
	"github.com/abhisek/persona/internal/store/postgres"
)

// env is the set of collaborators every subcommand builds from Config.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	users    store.UserRepo
	events   store.EventRepo
	sessions *auth.FileSessions
	client   *backend.Client
	accounts *backend.Accounts

	closers []io.Closer
}

func openEnv(cfg *config.Config) (*env, error) {
	e := &env{cfg: cfg}

	logger, logCloser, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	e.logger = logger
	e.closers = append(e.closers, logCloser)

	if cfg.UsesPostgres() {
		pg, err := postgres.Open(cfg.DatabaseURL, logger)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		e.users, e.events = pg.Users(), pg.Events()
		e.closers = append(e.closers, pg)
	} else {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.users, e.events = st.Users(), st.Events()
		e.closers = append(e.closers, st)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		if secret, err = auth.LoadOrCreateSecret(cfg.SecretFile); err != nil {
			e.Close()
			return nil, fmt.Errorf("load session secret: %w", err)
		}
	}
	e.sessions = auth.NewFileSessions(cfg.SessionFile, auth.NewIssuer(secret))
	e.client = backend.New(e.sessions, e.users, e.events, logger)
	e.accounts = backend.NewAccounts(e.sessions, e.users)
	return e, nil
}

// Close releases the store and log file in reverse order of opening.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	e.closers = nil
	return errors.Join(errs...)
}
