// Package nowplaying renders a live status message for one playback
// session and keeps it current on track changes and position ticks.
// The message retires itself when deleted or when newer channel
// activity pushes it out of view.
package nowplaying

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/gate"
	"github.com/illyaz/aquabot/internal/music/player"
)

type Messenger interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error
	DeleteMessage(channelID, messageID string) error
}

// Playback is the read-only view of the audio backend the tracker
// renders from.
type Playback interface {
	CurrentTrack() *player.Track
	Position() time.Duration
	QueueLength() int
	IsPaused() bool
}

// LiveStartFetch resolves the broadcast start time of a live stream.
// Best effort; an error leaves the tracker on decoder-reported position.
type LiveStartFetch func(t *player.Track) (time.Time, error)

const colorPlaying = 0x00AFF4

// Tracker owns one status message in one channel.
type Tracker struct {
	gate      *gate.Gate
	messenger Messenger
	playback  Playback
	guildID   string
	channelID string
	fetchLive LiveStartFetch

	mu          sync.Mutex
	messageID   string
	stopped     bool
	lastTrackID string
	liveStart   time.Time

	// onStopped releases the owner's single-flight slot.
	onStopped func()
}

// Start posts the initial render and subscribes to message deletion and
// to channel activity for superseded detection.
func Start(g *gate.Gate, m Messenger, p Playback, guildID, channelID string, fetchLive LiveStartFetch, onStopped func()) (*Tracker, error) {
	t := &Tracker{
		gate:      g,
		messenger: m,
		playback:  p,
		guildID:   guildID,
		channelID: channelID,
		fetchLive: fetchLive,
		onStopped: onStopped,
	}

	if track := p.CurrentTrack(); track != nil {
		t.lastTrackID = track.ID
		t.resolveLiveStart(track)
	}

	msg, err := m.SendEmbed(channelID, t.render())
	if err != nil {
		return nil, fmt.Errorf("now playing send failed: %w", err)
	}
	t.messageID = msg.ID

	g.Bind(msg.ID, t)
	g.Watch(channelID, t)
	return t, nil
}

func (t *Tracker) MessageID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.messageID
}

func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

// OnTrackStarted re-renders for the new track. The live-start lookup
// runs once per track identity, not on every tick.
func (t *Tracker) OnTrackStarted(track *player.Track) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if track.ID != t.lastTrackID {
		t.lastTrackID = track.ID
		t.liveStart = time.Time{}
		t.mu.Unlock()
		t.resolveLiveStart(track)
	} else {
		t.mu.Unlock()
	}
	t.rerender()
}

// OnTrackEnded re-renders the possibly idle state.
func (t *Tracker) OnTrackEnded() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.lastTrackID = ""
	t.liveStart = time.Time{}
	t.mu.Unlock()
	t.rerender()
}

// OnPositionTick refreshes the elapsed-time footer.
func (t *Tracker) OnPositionTick() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.rerender()
}

// Stop deletes the tracker message and unsubscribes.
func (t *Tracker) Stop() {
	if !t.retire() {
		return
	}
	if err := t.messenger.DeleteMessage(t.channelID, t.messageID); err != nil {
		log.Printf("[WARN] [NowPlaying %s] Failed to delete tracker message: %v", t.guildID, err)
	}
}

func (t *Tracker) OnReactionAdded(gate.Reaction)   {}
func (t *Tracker) OnReactionRemoved(gate.Reaction) {}
func (t *Tracker) OnReactionsCleared(string)       {}

// OnMessageDeleted retires the tracker; the message is already gone so
// there is nothing to clean up remotely.
func (t *Tracker) OnMessageDeleted(string) {
	t.retire()
}

// OnMessageCreated retires the tracker when a newer message lands in
// its channel, deleting the now-buried status message.
func (t *Tracker) OnMessageCreated(channelID, messageID string) {
	t.mu.Lock()
	own := t.messageID
	t.mu.Unlock()
	if !newerSnowflake(messageID, own) {
		return
	}
	t.Stop()
}

// retire marks the tracker stopped and unsubscribes. It returns false
// when the tracker was already retired.
func (t *Tracker) retire() bool {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return false
	}
	t.stopped = true
	t.mu.Unlock()

	t.gate.Unbind(t.messageID)
	t.gate.Unwatch(t.channelID, t)
	if t.onStopped != nil {
		t.onStopped()
	}
	return true
}

func (t *Tracker) resolveLiveStart(track *player.Track) {
	if !track.Live || t.fetchLive == nil {
		return
	}
	start, err := t.fetchLive(track)
	if err != nil {
		log.Printf("[WARN] [NowPlaying %s] Live start lookup failed for %q: %v", t.guildID, track.Title, err)
		return
	}
	t.mu.Lock()
	t.liveStart = start
	t.mu.Unlock()
}

func (t *Tracker) rerender() {
	t.mu.Lock()
	messageID := t.messageID
	t.mu.Unlock()
	if err := t.messenger.EditEmbed(t.channelID, messageID, t.render()); err != nil {
		log.Printf("[WARN] [NowPlaying %s] Render edit failed: %v", t.guildID, err)
	}
}

func (t *Tracker) render() *discordgo.MessageEmbed {
	track := t.playback.CurrentTrack()
	if track == nil {
		return &discordgo.MessageEmbed{
			Title: "Not playing",
			Color: colorPlaying,
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       track.Title,
		URL:         track.Source,
		Color:       colorPlaying,
		Description: statusLine(t.playback.IsPaused()),
		Footer:      &discordgo.MessageEmbedFooter{Text: t.footer(track)},
	}
	if track.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail}
	}
	return embed
}

func statusLine(paused bool) string {
	if paused {
		return "Paused"
	}
	return "Now playing"
}

// footer renders "elapsed / total" plus a queue-depth suffix. Live
// streams with a known broadcast start show uptime on both sides;
// unknown durations show "--".
func (t *Tracker) footer(track *player.Track) string {
	t.mu.Lock()
	liveStart := t.liveStart
	t.mu.Unlock()

	var text string
	switch {
	case !liveStart.IsZero():
		uptime := formatDuration(time.Since(liveStart))
		text = uptime + " / " + uptime
	case track.Duration > 0:
		text = formatDuration(t.playback.Position()) + " / " + formatDuration(track.Duration)
	default:
		text = formatDuration(t.playback.Position()) + " / --"
	}

	if n := t.playback.QueueLength(); n > 0 {
		text += fmt.Sprintf(" • Queue: %d", n)
	}
	return text
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// newerSnowflake reports whether a is a later message id than b.
// Discord ids are time-ordered uint64s rendered as decimal strings.
func newerSnowflake(a, b string) bool {
	av, errA := strconv.ParseUint(a, 10, 64)
	bv, errB := strconv.ParseUint(b, 10, 64)
	if errA != nil || errB != nil {
		return a > b
	}
	return av > bv
}
