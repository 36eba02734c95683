package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	// Close waits for the autosave goroutine, which only exits once the
	// context is cancelled.
	t.Cleanup(func() {
		cancel()
		s.Close()
	})
	return s
}

func record(cmd string) CommandHistoryRecord {
	return CommandHistoryRecord{
		ChannelID:   "chan-1",
		ChannelName: "general",
		GuildName:   "Test Guild",
		UserID:      "user-1",
		Username:    "tester",
		Command:     cmd,
		Datetime:    time.Now(),
	}
}

func TestAppendAndFetchHistory(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AppendCommandToHistory("guild-1", record("play")))
	require.NoError(t, s.AppendCommandToHistory("guild-1", record("skip")))

	history, err := s.FetchCommandHistory("guild-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "play", history[0].Command)
	assert.Equal(t, "skip", history[1].Command)
}

func TestHistoryIsPerGuild(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AppendCommandToHistory("guild-1", record("play")))

	history, err := s.FetchCommandHistory("guild-2")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryTrimmedToLimit(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory("guild-1", record(fmt.Sprintf("cmd-%d", i))))
	}

	history, err := s.FetchCommandHistory("guild-1")
	require.NoError(t, err)
	assert.Len(t, history, commandHistoryLimit)
	// Oldest entries fall off the front.
	assert.Equal(t, fmt.Sprintf("cmd-%d", 5), history[0].Command)
}

func TestHistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.AppendCommandToHistory("guild-1", record("play")))
	cancel()
	require.NoError(t, s.Close())

	ctx2, cancel2 := context.WithCancel(context.Background())
	reopened, err := New(ctx2, path)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel2()
		reopened.Close()
	})

	history, err := reopened.FetchCommandHistory("guild-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "play", history[0].Command)
}