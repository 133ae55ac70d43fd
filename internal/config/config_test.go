package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{
		"PERSONA_DB", "PERSONA_DATABASE_URL", "PERSONA_SESSION_FILE",
		"PERSONA_SESSION_SECRET", "PERSONA_LOG_FILE", "PERSONA_LOG_LEVEL",
		"PERSONA_QUESTIONS", "PERSONA_GRACE_DELAY", "PERSONA_RESULTS_DELAY",
		"PERSONA_SAVE_EVERY", "PERSONA_SAVE_TIMEOUT",
	} {
		// godotenv treats a set-but-empty variable as present.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(dir, "data", "persona", "persona.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "config", "persona", "session"), cfg.SessionFile)
	assert.Equal(t, filepath.Join(dir, "state", "persona", "persona.log"), cfg.LogFile)
	assert.Equal(t, DefaultGraceDelay, cfg.GraceDelay)
	assert.Equal(t, DefaultResultsDelay, cfg.ResultsDelay)
	assert.Equal(t, DefaultSaveEvery, cfg.SaveEvery)
	assert.Equal(t, DefaultSaveTimeout, cfg.SaveTimeout)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_Env(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PERSONA_GRACE_DELAY", "250ms")
	t.Setenv("PERSONA_SAVE_EVERY", "5")
	t.Setenv("PERSONA_DATABASE_URL", "postgres://u:p@localhost:5432/persona")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 250*time.Millisecond, cfg.GraceDelay)
	assert.Equal(t, 5, cfg.SaveEvery)
	assert.True(t, cfg.UsesPostgres())
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := isolateEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PERSONA_LOG_LEVEL=debug\nPERSONA_SAVE_EVERY=7\n"), 0o600))
	t.Setenv("PERSONA_SAVE_EVERY", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.SaveEvery)
}

func TestLoad_BadValues(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PERSONA_GRACE_DELAY", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERSONA_GRACE_DELAY")

	t.Setenv("PERSONA_GRACE_DELAY", "")
	t.Setenv("PERSONA_SAVE_EVERY", "three")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolateEnv(t)
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero save every", func(c *Config) { c.SaveEvery = 0 }, "SaveEvery"},
		{"negative grace", func(c *Config) { c.GraceDelay = -time.Millisecond }, "GraceDelay"},
		{"huge results delay", func(c *Config) { c.ResultsDelay = time.Minute }, "ResultsDelay"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"mysql url", func(c *Config) { c.DatabaseURL = "mysql://localhost/db" }, "DatabaseURL"},
		{"missing questions file", func(c *Config) { c.QuestionsFile = "/no/such/bank.json" }, "QuestionsFile"},
		{"no session file", func(c *Config) { c.SessionFile = "" }, "SessionFile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.field), "error %q should name %s", err, tt.field)
		})
	}
}
