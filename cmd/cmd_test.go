package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/persona/internal/backend"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{
		"PERSONA_DB", "PERSONA_DATABASE_URL", "PERSONA_SESSION_FILE",
		"PERSONA_SESSION_SECRET", "PERSONA_QUESTIONS", "PERSONA_LLM_PROVIDER",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSessionCommands(t *testing.T) {
	isolate(t)

	out, err := execute(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")

	_, err = execute(t, "answers")
	assert.ErrorIs(t, err, backend.ErrNoSession)

	out, err = execute(t, "login", "--user", "ada", "--name", "Ada", "--ttl", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ada")

	out, err = execute(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ada (Ada)")

	out, err = execute(t, "answers", "--history", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "No answers saved.")

	out, err = execute(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved answers cleared.")

	out, err = execute(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	out, err = execute(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestLoginRejectsBadUserID(t *testing.T) {
	isolate(t)
	_, err := execute(t, "login", "--user", "two words", "--name", "", "--ttl", "0")
	assert.ErrorIs(t, err, backend.ErrInvalidUserID)
}

func TestQuestionsValidate(t *testing.T) {
	dir := isolate(t)
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"version": "1.0.0",
		"title": "Tiny",
		"questions": [
			{"text": "q", "options": [{"text": "x"}, {"text": "y"}]},
			{"text": "r", "maxSelect": 2, "options": [{"text": "x"}, {"text": "y"}]}
		]
	}`), 0o644))

	out, err := execute(t, "questions", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "2 (1 multi-select)")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version": "2.0.0", "questions": []}`), 0o644))
	_, err = execute(t, "questions", "validate", bad)
	assert.Error(t, err)
}

func TestBadConfigIsReported(t *testing.T) {
	isolate(t)
	t.Setenv("PERSONA_SAVE_EVERY", "0")
	_, err := execute(t, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SaveEvery")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "persona")
}
