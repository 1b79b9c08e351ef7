package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fasscorp/FassimoV3/internal/session"
	"github.com/Fasscorp/FassimoV3/internal/tasks"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "fassimo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLocalStore_TaskRoundTrip(t *testing.T) {
	s := newTestStore(t)

	due := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	created, err := s.Add("Set up your business profile", tasks.PriorityHigh, &due)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	second, err := s.Add("Connect your existing business profile", tasks.PriorityMedium, nil)
	require.NoError(t, err)

	items, err := s.List()
	require.NoError(t, err)

	want := []tasks.Task{
		{ID: created.ID, Description: "Set up your business profile", Priority: tasks.PriorityHigh, DueDate: &due},
		{ID: second.ID, Description: "Connect your existing business profile", Priority: tasks.PriorityMedium},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("task list mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalStore_Update(t *testing.T) {
	s := newTestStore(t)

	due := time.Date(2026, 9, 3, 14, 30, 0, 0, time.UTC)
	created, err := s.Add("Follow up", tasks.PriorityLow, &due)
	require.NoError(t, err)

	t.Run("unknown id reports false without error", func(t *testing.T) {
		done := true
		ok, err := s.Update("missing", tasks.Patch{Completed: &done})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("partial update round-trips", func(t *testing.T) {
		done := true
		desc := "Follow up with the customer"
		ok, err := s.Update(created.ID, tasks.Patch{Completed: &done, Description: &desc})
		require.NoError(t, err)
		assert.True(t, ok)

		items, err := s.List()
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Completed)
		assert.Equal(t, desc, items[0].Description)
		require.NotNil(t, items[0].DueDate)
	})

	t.Run("clearing the due date persists", func(t *testing.T) {
		ok, err := s.Update(created.ID, tasks.Patch{ClearDue: true})
		require.NoError(t, err)
		assert.True(t, ok)

		items, err := s.List()
		require.NoError(t, err)
		assert.Nil(t, items[0].DueDate)
	})

	t.Run("empty patch still reports id existence", func(t *testing.T) {
		ok, err := s.Update(created.ID, tasks.Patch{})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Update("missing", tasks.Patch{})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestLocalStore_TurnSink(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendTurn("s1", session.Turn{Speaker: session.SpeakerUser, Text: "hello"}))
	require.NoError(t, s.AppendTurn("s1", session.Turn{Speaker: session.SpeakerAgent, Text: "hi!"}))
	require.NoError(t, s.AppendTurn("s2", session.Turn{Speaker: session.SpeakerUser, Text: "other session"}))

	turns, err := s.Turns("s1")
	require.NoError(t, err)
	want := []session.Turn{
		{Speaker: session.SpeakerUser, Text: "hello"},
		{Speaker: session.SpeakerAgent, Text: "hi!"},
	}
	if diff := cmp.Diff(want, turns); diff != "" {
		t.Errorf("turns mismatch (-want +got):\n%s", diff)
	}

	t.Run("clear only touches the requested session", func(t *testing.T) {
		require.NoError(t, s.ClearTurns("s1"))

		turns, err := s.Turns("s1")
		require.NoError(t, err)
		assert.Empty(t, turns)

		other, err := s.Turns("s2")
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}
