package vote

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illyaz/aquabot/internal/gate"
	"github.com/illyaz/aquabot/internal/music/player"
)

func skipParams(window time.Duration) SkipVoteParams {
	return SkipVoteParams{
		GuildID:     "guild-1",
		ChannelID:   "chan-1",
		RequesterID: "requester",
		Accept:      "✅",
		Window:      window,
	}
}

func playingBackend(looping bool) *fakePlayback {
	return &fakePlayback{
		looping: looping,
		track:   &player.Track{ID: "a", Title: "Test Track"},
	}
}

func statusOf(t *testing.T, m *fakeMessenger) string {
	t.Helper()
	embed := m.lastEdit()
	require.NotNil(t, embed)
	require.NotEmpty(t, embed.Fields)
	return embed.Fields[0].Value
}

func TestSkipVoteQuorumApproval(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(true)
	// Requester plus three other listeners, bot excluded from the count.
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2", "user-3", "bot"}}

	var resolved atomic.Int32
	params := skipParams(time.Minute)
	params.OnResolved = func() { resolved.Add(1) }

	v, err := StartSkipVote(g, m, p, presence, params)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 3, v.threshold) // floor(4 * 0.75)

	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-1", Emoji: "✅"})
	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-2", Emoji: "✅"})
	assert.Equal(t, "2 / 3", statusOf(t, m))
	assert.True(t, v.Active())
	assert.Equal(t, 0, p.skipCount())

	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-3", Emoji: "✅"})
	assert.Equal(t, "Approved", statusOf(t, m))
	assert.False(t, v.Active())
	assert.Equal(t, 1, p.skipCount())

	// The forced skip ran with looping suspended and restored it after.
	assert.Equal(t, []bool{false}, p.loopDuringSkip)
	assert.True(t, p.Looping())
	assert.Equal(t, int32(1), resolved.Load())
	assert.Equal(t, 1, m.replyCount())
}

func TestSkipVoteAutoApprovesWithUnderTwoListeners(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "bot"}}

	v, err := StartSkipVote(g, m, p, presence, skipParams(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 1, p.skipCount())
	assert.Empty(t, m.sent) // no tally posted
	assert.Equal(t, 1, m.replyCount())
}

func TestSkipVoteIgnoresRequesterBotAndDuplicates(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2", "user-3"}}

	v, err := StartSkipVote(g, m, p, presence, skipParams(time.Minute))
	require.NoError(t, err)

	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "requester", Emoji: "✅"})
	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "bot", Emoji: "✅"})
	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-1", Emoji: "✅"})
	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-1", Emoji: "✅"})

	assert.Equal(t, "1 / 3", statusOf(t, m))
	assert.True(t, v.Active())
}

func TestSkipVoteUnregister(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2", "user-3"}}

	v, err := StartSkipVote(g, m, p, presence, skipParams(time.Minute))
	require.NoError(t, err)

	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-1", Emoji: "✅"})
	g.ReactionRemoved(gate.Reaction{MessageID: v.MessageID(), UserID: "user-1", Emoji: "✅"})
	assert.Equal(t, "0 / 3", statusOf(t, m))

	// Dropping to zero does not cancel the vote.
	assert.True(t, v.Active())
}

func TestSkipVoteTimeoutCancels(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{canManage: true}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2"}}

	var resolved atomic.Int32
	params := skipParams(40 * time.Millisecond)
	params.OnResolved = func() { resolved.Add(1) }

	v, err := StartSkipVote(g, m, p, presence, params)
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for v.Active() {
		select {
		case <-deadline:
			t.Fatal("vote never timed out")
		case <-time.After(5 * time.Millisecond):
		}
	}

	assert.Equal(t, "Cancelled", statusOf(t, m))
	assert.Equal(t, 0, p.skipCount())
	assert.Equal(t, []string{v.MessageID()}, m.stripped)
	assert.Equal(t, int32(1), resolved.Load())
}

func TestSkipVoteTimeoutKeepsReactionsWithoutPermission(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{canManage: false}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2"}}

	v, err := StartSkipVote(g, m, p, presence, skipParams(30*time.Millisecond))
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for v.Active() {
		select {
		case <-deadline:
			t.Fatal("vote never timed out")
		case <-time.After(5 * time.Millisecond):
		}
	}
	assert.Empty(t, m.stripped)
}

func TestSkipVoteEachVoteResetsTimer(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "u1", "u2", "u3", "u4", "u5"}}

	v, err := StartSkipVote(g, m, p, presence, skipParams(60*time.Millisecond))
	require.NoError(t, err)

	// Keep poking the vote past several original deadlines.
	for i, user := range []string{"u1", "u2"} {
		time.Sleep(40 * time.Millisecond)
		emoji := "✅"
		if i%2 == 1 {
			g.ReactionRemoved(gate.Reaction{MessageID: v.MessageID(), UserID: "u1", Emoji: emoji})
		} else {
			g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: user, Emoji: emoji})
		}
	}
	assert.True(t, v.Active(), "timer should have been pushed out by vote activity")
}

func TestSkipVoteExplicitCancel(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2"}}

	v, err := StartSkipVote(g, m, p, presence, skipParams(time.Minute))
	require.NoError(t, err)

	v.Cancel("track ended")
	assert.False(t, v.Active())
	assert.Equal(t, "Cancelled", statusOf(t, m))

	// Terminal state is sticky: late reactions change nothing.
	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-1", Emoji: "✅"})
	assert.Equal(t, 0, p.skipCount())
}

func TestSkipVoteReactionsClearedResetsTally(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2", "user-3"}}

	v, err := StartSkipVote(g, m, p, presence, skipParams(time.Minute))
	require.NoError(t, err)

	g.ReactionAdded(gate.Reaction{MessageID: v.MessageID(), UserID: "user-1", Emoji: "✅"})
	g.ReactionsCleared(v.MessageID())
	assert.Equal(t, "0 / 3", statusOf(t, m))
	assert.True(t, v.Active())
}

func TestSkipVoteMessageDeletedCancels(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := playingBackend(false)
	presence := &fakePresence{users: []string{"requester", "user-1", "user-2"}}

	var resolved atomic.Int32
	params := skipParams(time.Minute)
	params.OnResolved = func() { resolved.Add(1) }

	v, err := StartSkipVote(g, m, p, presence, params)
	require.NoError(t, err)

	g.MessageDeleted(v.MessageID())
	assert.False(t, v.Active())
	assert.Equal(t, 0, p.skipCount())
	assert.Equal(t, int32(1), resolved.Load())
}
