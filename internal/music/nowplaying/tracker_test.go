package nowplaying

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illyaz/aquabot/internal/gate"
	"github.com/illyaz/aquabot/internal/music/player"
)

type fakeMessenger struct {
	mu      sync.Mutex
	nextID  uint64
	edits   []*discordgo.MessageEmbed
	deleted []string
}

func (m *fakeMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID += 100
	return &discordgo.Message{ID: fmt.Sprintf("%d", m.nextID), ChannelID: channelID}, nil
}

func (m *fakeMessenger) EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, embed)
	return nil
}

func (m *fakeMessenger) DeleteMessage(channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *fakeMessenger) lastEdit() *discordgo.MessageEmbed {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return nil
	}
	return m.edits[len(m.edits)-1]
}

func (m *fakeMessenger) editCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edits)
}

type fakePlayback struct {
	mu       sync.Mutex
	track    *player.Track
	position time.Duration
	queue    int
	paused   bool
}

func (p *fakePlayback) CurrentTrack() *player.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

func (p *fakePlayback) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayback) QueueLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue
}

func (p *fakePlayback) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *fakePlayback) set(track *player.Track, pos time.Duration, queue int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.track = track
	p.position = pos
	p.queue = queue
}

func sampleTrack() *player.Track {
	return &player.Track{
		ID:       "vid-1",
		Title:    "Some Song",
		Source:   "https://www.youtube.com/watch?v=vid-1",
		Duration: 4 * time.Minute,
		Provider: player.ProviderYouTube,
	}
}

func TestTrackerRendersIdleState(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}

	tr, err := Start(g, m, p, "guild-1", "chan-1", nil, nil)
	require.NoError(t, err)

	tr.OnPositionTick()
	embed := m.lastEdit()
	require.NotNil(t, embed)
	assert.Equal(t, "Not playing", embed.Title)
	assert.Nil(t, embed.Footer)
}

func TestTrackerFooterWithAndWithoutQueue(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}
	p.set(sampleTrack(), 65*time.Second, 0)

	tr, err := Start(g, m, p, "guild-1", "chan-1", nil, nil)
	require.NoError(t, err)

	tr.OnTrackStarted(p.CurrentTrack())
	embed := m.lastEdit()
	require.NotNil(t, embed)
	assert.Equal(t, "Some Song", embed.Title)
	assert.Equal(t, "00:01:05 / 00:04:00", embed.Footer.Text)

	p.set(p.CurrentTrack(), 65*time.Second, 3)
	tr.OnPositionTick()
	assert.Equal(t, "00:01:05 / 00:04:00 • Queue: 3", m.lastEdit().Footer.Text)
}

func TestTrackerUnknownDurationFooter(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}
	track := sampleTrack()
	track.Duration = 0
	p.set(track, 30*time.Second, 0)

	tr, err := Start(g, m, p, "guild-1", "chan-1", nil, nil)
	require.NoError(t, err)

	tr.OnPositionTick()
	assert.Equal(t, "00:00:30 / --", m.lastEdit().Footer.Text)
}

func TestTrackerLiveStreamUsesBroadcastStart(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}
	track := sampleTrack()
	track.Duration = 0
	track.Live = true
	p.set(track, 0, 0)

	fetch := func(*player.Track) (time.Time, error) {
		return time.Now().Add(-2 * time.Hour), nil
	}
	tr, err := Start(g, m, p, "guild-1", "chan-1", fetch, nil)
	require.NoError(t, err)

	tr.OnPositionTick()
	footer := m.lastEdit().Footer.Text
	assert.Contains(t, footer, "02:00:0")
	// Open-ended stream: uptime on both sides.
	parts := []rune(footer)
	assert.Equal(t, footer[:8], string(parts[11:19]))
}

func TestTrackerLiveFetchFailureFallsBack(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}
	track := sampleTrack()
	track.Duration = 0
	track.Live = true
	p.set(track, 45*time.Second, 0)

	fetch := func(*player.Track) (time.Time, error) {
		return time.Time{}, errors.New("age restricted")
	}
	tr, err := Start(g, m, p, "guild-1", "chan-1", fetch, nil)
	require.NoError(t, err)

	tr.OnPositionTick()
	assert.Equal(t, "00:00:45 / --", m.lastEdit().Footer.Text)
}

func TestTrackerLiveFetchOncePerTrack(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}
	track := sampleTrack()
	track.Live = true
	p.set(track, 0, 0)

	var fetches int
	fetch := func(*player.Track) (time.Time, error) {
		fetches++
		return time.Now(), nil
	}
	tr, err := Start(g, m, p, "guild-1", "chan-1", fetch, nil)
	require.NoError(t, err)

	tr.OnTrackStarted(track)
	tr.OnTrackStarted(track)
	tr.OnPositionTick()
	assert.Equal(t, 1, fetches)
}

func TestTrackerDeletedMessageRetires(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}
	p.set(sampleTrack(), 0, 0)

	var stopped int
	tr, err := Start(g, m, p, "guild-1", "chan-1", nil, func() { stopped++ })
	require.NoError(t, err)

	g.MessageDeleted(tr.MessageID())
	assert.False(t, tr.Active())
	assert.Equal(t, 1, stopped)

	// Further lifecycle events must not touch the transport.
	before := m.editCount()
	tr.OnTrackStarted(sampleTrack())
	tr.OnTrackEnded()
	tr.OnPositionTick()
	assert.Equal(t, before, m.editCount())
	assert.Empty(t, m.deleted)
}

func TestTrackerSupersededByNewerMessage(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}
	p.set(sampleTrack(), 0, 0)

	tr, err := Start(g, m, p, "guild-1", "chan-1", nil, nil)
	require.NoError(t, err)

	// An older id (for example a delayed event for a prior message)
	// must not retire the tracker.
	g.MessageCreated("chan-1", "1")
	assert.True(t, tr.Active())

	g.MessageCreated("chan-1", "999999")
	assert.False(t, tr.Active())
	assert.Equal(t, []string{tr.MessageID()}, m.deleted)
}

func TestTrackerStopDeletesMessage(t *testing.T) {
	g := gate.New()
	m := &fakeMessenger{}
	p := &fakePlayback{}

	tr, err := Start(g, m, p, "guild-1", "chan-1", nil, nil)
	require.NoError(t, err)

	tr.Stop()
	assert.Equal(t, []string{tr.MessageID()}, m.deleted)

	tr.Stop() // idempotent
	assert.Len(t, m.deleted, 1)
}

func TestParseStartTimestamp(t *testing.T) {
	html := `{"liveBroadcastDetails":{"isLiveNow":true,"startTimestamp":"2026-08-29T10:00:00+00:00"}}`
	start, err := parseStartTimestamp(html)
	require.NoError(t, err)
	assert.Equal(t, 2026, start.Year())

	_, err = parseStartTimestamp("<html>no player response</html>")
	assert.Error(t, err)

	_, err = parseStartTimestamp(`"startTimestamp":"not-a-time"`)
	assert.Error(t, err)
}
