package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illyaz/aquabot/internal/music/player"
)

type noopSink struct{}

func (noopSink) Play(ctx context.Context, channelID string, t *player.Track, start time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}
func (noopSink) SetVolume(int)    {}
func (noopSink) Disconnect() error { return nil }

func newTestRegistry() *Registry {
	return NewRegistry(time.Hour) // ticks disabled for tests
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	r := newTestRegistry()
	defer r.CloseAll()

	calls := 0
	factory := func() *player.Player {
		calls++
		return player.New("guild-1", noopSink{})
	}

	s1 := r.GetOrCreate("guild-1", factory)
	s2 := r.GetOrCreate("guild-1", factory)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, calls)

	s3 := r.GetOrCreate("guild-2", func() *player.Player {
		return player.New("guild-2", noopSink{})
	})
	assert.NotSame(t, s1, s3)
}

func TestGetWithoutSession(t *testing.T) {
	r := newTestRegistry()
	_, ok := r.Get("guild-1")
	assert.False(t, ok)
}

func TestRemoveClosesSession(t *testing.T) {
	r := newTestRegistry()

	s := r.GetOrCreate("guild-1", func() *player.Player {
		return player.New("guild-1", noopSink{})
	})
	require.NotNil(t, s)

	r.Remove("guild-1")
	_, ok := r.Get("guild-1")
	assert.False(t, ok)
}

func TestSkipVoteSlotSingleFlight(t *testing.T) {
	r := newTestRegistry()
	defer r.CloseAll()

	s := r.GetOrCreate("guild-1", func() *player.Player {
		return player.New("guild-1", noopSink{})
	})

	// An empty slot accepts nil installs without complaint.
	require.NoError(t, s.SetSkipVote(nil))
	assert.Nil(t, s.SkipVote())

	s.ClearSkipVote()
	assert.Nil(t, s.SkipVote())
}
