// Package player is the per-guild playback engine: a queue of resolved
// tracks, the currently playing one, and the controls a command layer
// needs (pause, resume, seek, volume, loop, skip). Audio delivery is
// delegated to a Sink; the player owns ordering, position, and lifecycle
// events.
package player

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"
)

var (
	ErrNoTrackPlaying  = errors.New("no track is currently playing")
	ErrNoTracksInQueue = errors.New("no tracks in queue")
	ErrNotPaused       = errors.New("playback is not paused")
)

type EventType int

const (
	EventTrackStarted EventType = iota
	EventTrackEnded
	EventTrackException
)

// Event is a track lifecycle notification. Exactly one goroutine should
// consume Events(); the channel is buffered and drops when full.
type Event struct {
	Type  EventType
	Track *Track
	Err   error
}

// Sink consumes a track's audio. Play blocks until the stream is
// exhausted or ctx is cancelled; the returned error is nil for a clean
// end of stream.
type Sink interface {
	Play(ctx context.Context, voiceChannelID string, t *Track, start time.Duration) error
	SetVolume(percent int)
	Disconnect() error
}

type Player struct {
	guildID string
	sink    Sink

	mu      sync.Mutex
	queue   []*Track
	history []*Track
	current *Track
	playing bool
	paused  bool
	looping bool
	volume  int

	preventDuplicates bool

	voiceChannelID string

	// gen invalidates stream-end callbacks from superseded playbacks.
	gen       int
	cancel    context.CancelFunc
	startedAt time.Time
	seekBase  time.Duration
	pausedAt  time.Duration

	events chan Event
}

// New creates a Player for one guild.
func New(guildID string, sink Sink) *Player {
	return &Player{
		guildID: guildID,
		sink:    sink,
		volume:  100,
		events:  make(chan Event, 16), // buffered to reduce drops
	}
}

// Events returns the track lifecycle stream.
func (p *Player) Events() <-chan Event {
	return p.events
}

// SetPreventDuplicates toggles duplicate filtering on Enqueue.
func (p *Player) SetPreventDuplicates(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preventDuplicates = v
}

// Enqueue appends tracks to the queue and returns how many were added.
// With duplicate prevention on, tracks whose source matches the current
// track or a queued one are dropped.
func (p *Player) Enqueue(tracks ...*Track) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := 0
	for _, t := range tracks {
		if p.preventDuplicates && p.hasTrackLocked(t.Source) {
			log.Printf("[INFO] [Player %s] Dropping duplicate track %q", p.guildID, t.Title)
			continue
		}
		p.queue = append(p.queue, t)
		added++
	}
	return added
}

// EnqueueFront inserts tracks at the head of the queue, keeping their
// relative order, and returns how many were added. Duplicate prevention
// applies as in Enqueue.
func (p *Player) EnqueueFront(tracks ...*Track) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := make([]*Track, 0, len(tracks))
	for _, t := range tracks {
		dupe := p.preventDuplicates && (p.hasTrackLocked(t.Source) ||
			slices.ContainsFunc(added, func(a *Track) bool { return a.Source == t.Source }))
		if dupe {
			log.Printf("[INFO] [Player %s] Dropping duplicate track %q", p.guildID, t.Title)
			continue
		}
		added = append(added, t)
	}
	p.queue = append(added, p.queue...)
	return len(added)
}

func (p *Player) hasTrackLocked(source string) bool {
	if p.current != nil && p.current.Source == source {
		return true
	}
	return slices.ContainsFunc(p.queue, func(t *Track) bool { return t.Source == source })
}

// Play starts playback of the next queued track into voiceChannelID.
// It is a no-op error when nothing is queued; when already playing the
// queued tracks simply wait their turn.
func (p *Player) Play(voiceChannelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.voiceChannelID = voiceChannelID
	if p.playing || p.paused {
		return nil
	}
	if len(p.queue) == 0 {
		return ErrNoTracksInQueue
	}

	next := p.queue[0]
	p.queue = p.queue[1:]
	p.startLocked(next, 0, true)
	return nil
}

// startLocked begins streaming t at offset start. Caller holds p.mu.
func (p *Player) startLocked(t *Track, start time.Duration, emitStart bool) {
	p.gen++
	gen := p.gen

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.current = t
	p.playing = true
	p.paused = false
	p.startedAt = time.Now()
	p.seekBase = start

	channelID := p.voiceChannelID
	go func() {
		err := p.sink.Play(ctx, channelID, t, start)
		p.streamEnded(gen, t, err, ctx.Err() != nil)
	}()

	if emitStart {
		p.emit(Event{Type: EventTrackStarted, Track: t})
	}
}

// streamEnded handles a sink returning. Cancelled streams are owned by
// whichever control cancelled them; only natural ends advance the queue.
func (p *Player) streamEnded(gen int, t *Track, err error, cancelled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || cancelled {
		return
	}

	if err != nil {
		log.Printf("[ERR] [Player %s] Track %q failed: %v", p.guildID, t.Title, err)
		p.emit(Event{Type: EventTrackException, Track: t, Err: err})
	}

	p.history = append(p.history, t)
	p.emit(Event{Type: EventTrackEnded, Track: t})

	if p.looping && err == nil {
		p.startLocked(t, 0, true)
		return
	}
	p.advanceLocked()
}

// advanceLocked plays the next queued track or goes idle. Caller holds p.mu.
func (p *Player) advanceLocked() {
	if len(p.queue) > 0 {
		next := p.queue[0]
		p.queue = p.queue[1:]
		p.startLocked(next, 0, true)
		return
	}
	p.current = nil
	p.playing = false
	p.paused = false
	p.cancel = nil
}

// Skip ends the current track. With looping enabled the same track
// restarts; callers that must force an advance suspend looping first.
func (p *Player) Skip() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return ErrNoTrackPlaying
	}

	t := p.current
	p.stopStreamLocked()
	p.history = append(p.history, t)
	p.emit(Event{Type: EventTrackEnded, Track: t})

	if p.looping {
		p.startLocked(t, 0, true)
		return nil
	}
	p.advanceLocked()
	return nil
}

// Stop halts playback. With disconnect it also clears the queue and
// leaves the voice channel.
func (p *Player) Stop(disconnect bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil && !disconnect {
		return ErrNoTrackPlaying
	}

	if p.current != nil {
		t := p.current
		p.stopStreamLocked()
		p.emit(Event{Type: EventTrackEnded, Track: t})
	}
	p.current = nil
	p.playing = false
	p.paused = false

	if disconnect {
		p.queue = nil
		p.voiceChannelID = ""
		if err := p.sink.Disconnect(); err != nil {
			log.Printf("[WARN] [Player %s] Voice disconnect failed: %v", p.guildID, err)
		}
	}
	return nil
}

// stopStreamLocked cancels the active stream and invalidates its
// end-callback. Caller holds p.mu.
func (p *Player) stopStreamLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
}

// Pause suspends playback, remembering the position for Resume.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.current == nil {
		return ErrNoTrackPlaying
	}

	p.pausedAt = p.positionLocked()
	p.stopStreamLocked()
	p.playing = false
	p.paused = true
	return nil
}

// Resume restarts a paused track from where it was paused.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.paused || p.current == nil {
		return ErrNotPaused
	}
	p.startLocked(p.current, p.pausedAt, false)
	return nil
}

// Seek restarts the current track at pos, clamped to its duration.
func (p *Player) Seek(pos time.Duration) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return 0, ErrNoTrackPlaying
	}
	if pos < 0 {
		pos = 0
	}
	if d := p.current.Duration; d > 0 && pos > d {
		pos = d
	}

	p.stopStreamLocked()
	p.startLocked(p.current, pos, false)
	return pos, nil
}

// SetVolume sets playback volume in percent, clamped to 0-200.
func (p *Player) SetVolume(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 200 {
		percent = 200
	}
	p.mu.Lock()
	p.volume = percent
	p.mu.Unlock()
	p.sink.SetVolume(percent)
}

func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) Looping() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.looping
}

func (p *Player) SetLooping(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.looping = v
}

// CurrentTrack returns the playing (or paused) track, nil when idle.
func (p *Player) CurrentTrack() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Position returns the playback position within the current track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	switch {
	case p.current == nil:
		return 0
	case p.paused:
		return p.pausedAt
	case !p.playing:
		return 0
	default:
		return p.seekBase + time.Since(p.startedAt)
	}
}

// Queue returns a copy of the pending tracks.
func (p *Player) Queue() []*Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.queue)
}

func (p *Player) QueueLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// ClearQueue drops all pending tracks, leaving the current one playing.
func (p *Player) ClearQueue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = nil
}

// History returns a copy of the played tracks.
func (p *Player) History() []*Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.history)
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// VoiceChannelID returns the channel playback was started into, empty
// when the player never joined or has disconnected.
func (p *Player) VoiceChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voiceChannelID
}

// emit sends without blocking; callers may hold p.mu.
func (p *Player) emit(ev Event) {
	select {
	case p.events <- ev:
	default:
		log.Printf("[WARN] [Player %s] Event dropped (channel full): %v", p.guildID, ev.Type)
	}
}
