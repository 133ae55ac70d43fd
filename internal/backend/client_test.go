package backend

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/persona/internal/auth"
	"github.com/abhisek/persona/internal/personality"
	"github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/store"
)

type stubSessions struct {
	session *auth.Session
	err     error
}

func (s stubSessions) CurrentSession(context.Context) (*auth.Session, error) {
	return s.session, s.err
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "persona.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func signedIn(id string) stubSessions {
	return stubSessions{session: &auth.Session{UserID: id}}
}

func TestClient_CurrentSession(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	s, err := New(stubSessions{}, st.Users(), nil, nil).CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(signedIn("u1"), st.Users(), nil, nil).CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u1", s.UserID)

	boom := errors.New("keyring locked")
	_, err = New(stubSessions{err: boom}, st.Users(), nil, nil).CurrentSession(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestClient_UpdateAndLoad(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	require.NoError(t, st.Users().EnsureUser(ctx, "u1", "Ada"))

	c := New(signedIn("u1"), st.Users(), st.Events(), nil)
	answers := []quiz.Answer{
		{QuestionID: personality.StringID("q1"), QuestionText: "One?", SelectedOptions: []string{"a", "b"}},
		{QuestionID: personality.NumericID(0), QuestionText: "Two?", SelectedOptions: []string{}},
	}

	saveCtx := quiz.WithSaveInfo(ctx, quiz.SaveInfo{AttemptID: "att-1", QuestionIndex: 3})
	require.NoError(t, c.UpdateSelectedOptions(saveCtx, "u1", answers))

	got, err := c.SavedAnswers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q1", got[0].QuestionID.String())
	assert.True(t, got[1].QuestionID.IsNumeric())
	assert.Equal(t, []string{"a", "b"}, got[0].SelectedOptions)

	events, err := c.RecentSaves(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "att-1", events[0].AttemptID)
	assert.Equal(t, 3, events[0].QuestionIndex)
	assert.Equal(t, 2, events[0].AnswerCount)
	assert.True(t, events[0].Success)
}

func TestClient_UpdateUnknownUserRecordsFailure(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	c := New(signedIn("ghost"), st.Users(), st.Events(), nil)

	err := c.UpdateSelectedOptions(ctx, "ghost", nil)
	require.ErrorIs(t, err, store.ErrUserNotFound)

	events, err := st.Events().RecentSaveEvents(ctx, "ghost", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Contains(t, events[0].ErrorMessage, "user not found")
}

func TestClient_EmptyAnswersStoredAsArray(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	require.NoError(t, st.Users().EnsureUser(ctx, "u1", ""))

	c := New(signedIn("u1"), st.Users(), nil, nil)
	require.NoError(t, c.UpdateSelectedOptions(ctx, "u1", nil))

	raw, err := st.Users().SelectedOptions(ctx, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestClient_RequiresSession(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	c := New(stubSessions{}, st.Users(), st.Events(), nil)

	_, err := c.SavedAnswers(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, c.ClearAnswers(ctx), ErrNoSession)
	_, err = c.RecentSaves(ctx, 1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClient_ClearAnswers(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	require.NoError(t, st.Users().EnsureUser(ctx, "u1", ""))
	require.NoError(t, st.Users().UpdateSelectedOptions(ctx, "u1", json.RawMessage(`[]`)))

	c := New(signedIn("u1"), st.Users(), nil, nil)
	require.NoError(t, c.ClearAnswers(ctx))

	got, err := c.SavedAnswers(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_WithFileSessions(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	sessions := auth.NewFileSessions(filepath.Join(t.TempDir(), "session"), auth.NewIssuer([]byte("k")))

	_, err := sessions.Login("u9", "Grace", time.Hour)
	require.NoError(t, err)
	require.NoError(t, st.Users().EnsureUser(ctx, "u9", "Grace"))

	c := New(sessions, st.Users(), st.Events(), nil)
	s, err := c.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u9", s.UserID)
}
