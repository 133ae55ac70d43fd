// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/persona/internal/logging"
	"github.com/abhisek/persona/internal/store"
	"github.com/abhisek/persona/internal/store/postgres"
)

// Config holds every setting the CLI needs.
type Config struct {
	DBPath      string `validate:"required"`
	DatabaseURL string `validate:"omitempty,url,postgres_url"`

	SessionFile   string `validate:"required"`
	SecretFile    string `validate:"required"`
	SessionSecret string

	LogFile  string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`

	QuestionsFile string `validate:"omitempty,file"`

	GraceDelay   time.Duration `validate:"gte=0,lte=10s"`
	ResultsDelay time.Duration `validate:"gte=0,lte=10s"`
	SaveEvery    int           `validate:"gte=1,lte=100"`
	SaveTimeout  time.Duration `validate:"gt=0"`
}

// Defaults for the quiz timings.
const (
	DefaultGraceDelay   = 100 * time.Millisecond
	DefaultResultsDelay = 80 * time.Millisecond
	DefaultSaveEvery    = 3
	DefaultSaveTimeout  = 15 * time.Second
)

// Load reads .env (if present, never overriding the real environment),
// then the PERSONA_* variables, falling back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	logFile, err := logging.DefaultLogPath()
	if err != nil {
		return nil, err
	}
	configDir, err := configHome()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:        dbPath,
		DatabaseURL:   os.Getenv("PERSONA_DATABASE_URL"),
		SessionFile:   getEnv("PERSONA_SESSION_FILE", filepath.Join(configDir, "session")),
		SecretFile:    filepath.Join(configDir, "secret"),
		SessionSecret: os.Getenv("PERSONA_SESSION_SECRET"),
		LogFile:       logFile,
		LogLevel:      getEnv("PERSONA_LOG_LEVEL", "info"),
		QuestionsFile: os.Getenv("PERSONA_QUESTIONS"),
	}

	if cfg.GraceDelay, err = getDuration("PERSONA_GRACE_DELAY", DefaultGraceDelay); err != nil {
		return nil, err
	}
	if cfg.ResultsDelay, err = getDuration("PERSONA_RESULTS_DELAY", DefaultResultsDelay); err != nil {
		return nil, err
	}
	if cfg.SaveTimeout, err = getDuration("PERSONA_SAVE_TIMEOUT", DefaultSaveTimeout); err != nil {
		return nil, err
	}
	if cfg.SaveEvery, err = getInt("PERSONA_SAVE_EVERY", DefaultSaveEvery); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UsesPostgres reports whether user records live in Postgres.
func (c *Config) UsesPostgres() bool {
	return postgres.IsURL(c.DatabaseURL)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("postgres_url", func(fl validator.FieldLevel) bool {
		return postgres.IsURL(fl.Field().String())
	})
	return v
}

// Validate checks the settings after flags have been applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configHome() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "persona"), nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
