package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docsmith/internal/flow"
	"docsmith/internal/session"
)

func openTestStore(t *testing.T) *SessionStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	sess := &session.Session{
		ID:        "sess-1",
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{"security", "operations"},
		Triggered: []string{"cloud.provider"},
		Answers: flow.AnswerMap{
			"project.name":        "billing",
			"privacy.pii":         true,
			"scale.users":         float64(250000),
			"security.data_types": []interface{}{"PII", "payment"},
		},
	}
	require.NoError(t, s.Save(sess))

	loaded, err := s.Load("sess-1")
	require.NoError(t, err)
	require.Equal(t, sess.Tags, loaded.Tags)
	require.Equal(t, sess.Triggered, loaded.Triggered)
	require.Equal(t, "billing", loaded.Answers["project.name"])
	require.Equal(t, true, loaded.Answers["privacy.pii"])
	require.Equal(t, float64(250000), loaded.Answers["scale.users"])
	require.Equal(t, []interface{}{"PII", "payment"}, loaded.Answers["security.data_types"])
}

func TestStore_SaveIsUpsert(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC()
	sess := &session.Session{
		ID: "sess-2", CreatedAt: now, UpdatedAt: now,
		Answers: flow.AnswerMap{"a": "one", "b": "two"},
	}
	require.NoError(t, s.Save(sess))

	delete(sess.Answers, "b")
	sess.Answers["a"] = "changed"
	require.NoError(t, s.Save(sess))

	loaded, err := s.Load("sess-2")
	require.NoError(t, err)
	require.Equal(t, "changed", loaded.Answers["a"])
	require.NotContains(t, loaded.Answers, "b")
}

func TestStore_ListAndDelete(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC()
	for i, id := range []string{"old", "new"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Save(&session.Session{
			ID: id, CreatedAt: ts, UpdatedAt: ts,
			Answers: flow.AnswerMap{"project.name": id},
		}))
	}

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, "new", infos[0].ID)
	require.Equal(t, 1, infos[0].Answered)

	require.NoError(t, s.Delete("old"))
	infos, err = s.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)

	_, err = s.Load("old")
	require.Error(t, err)
}
