// Package session ties one guild's playback together: the player, at
// most one live skip vote, and at most one now-playing tracker. A
// per-session goroutine routes player events into both.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/illyaz/aquabot/internal/music/nowplaying"
	"github.com/illyaz/aquabot/internal/music/player"
	"github.com/illyaz/aquabot/internal/music/vote"
)

var (
	ErrVoteActive    = errors.New("a skip vote is already running")
	ErrTrackerActive = errors.New("a now playing tracker is already running")
)

// Session is one guild's active playback context.
type Session struct {
	GuildID string
	Player  *player.Player

	mu      sync.Mutex
	vote    *vote.SkipVote
	tracker *nowplaying.Tracker

	cancel context.CancelFunc
}

func newSession(guildID string, p *player.Player, tick time.Duration) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		GuildID: guildID,
		Player:  p,
		cancel:  cancel,
	}
	go s.run(ctx, tick)
	return s
}

// run consumes player lifecycle events and drives periodic position
// renders. It is the only goroutine touching the tracker and vote from
// the playback side.
func (s *Session) run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-s.Player.Events():
			switch ev.Type {
			case player.EventTrackStarted:
				if t := s.Tracker(); t != nil {
					t.OnTrackStarted(ev.Track)
				}
			case player.EventTrackEnded:
				if v := s.SkipVote(); v != nil {
					v.Cancel("track ended")
				}
				if t := s.Tracker(); t != nil {
					t.OnTrackEnded()
				}
			case player.EventTrackException:
				log.Printf("[WARN] [Session %s] Track %q errored: %v", s.GuildID, ev.Track.Title, ev.Err)
			}

		case <-ticker.C:
			if !s.Player.IsPlaying() {
				continue
			}
			if t := s.Tracker(); t != nil {
				t.OnPositionTick()
			}
		}
	}
}

// SkipVote returns the live skip vote, nil when none is running.
func (s *Session) SkipVote() *vote.SkipVote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vote != nil && !s.vote.Active() {
		s.vote = nil
	}
	return s.vote
}

// SetSkipVote installs v as the session's single vote. A second live
// vote is rejected; callers should point users at the existing one.
func (s *Session) SetSkipVote(v *vote.SkipVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vote != nil && s.vote.Active() {
		return ErrVoteActive
	}
	s.vote = v
	return nil
}

// ClearSkipVote releases the vote slot; resolved votes call this via
// their OnResolved hook. A live vote in the slot is left alone so a
// stale callback cannot evict its successor.
func (s *Session) ClearSkipVote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vote != nil && s.vote.Active() {
		return
	}
	s.vote = nil
}

// Tracker returns the live now-playing tracker, nil when none.
func (s *Session) Tracker() *nowplaying.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker != nil && !s.tracker.Active() {
		s.tracker = nil
	}
	return s.tracker
}

// SetTracker installs t, stopping any previous tracker first so at most
// one status message is live.
func (s *Session) SetTracker(t *nowplaying.Tracker) {
	s.mu.Lock()
	prev := s.tracker
	s.tracker = t
	s.mu.Unlock()
	if prev != nil && prev.Active() {
		prev.Stop()
	}
}

// ClearTracker releases the tracker slot unless a live replacement
// already occupies it.
func (s *Session) ClearTracker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker != nil && s.tracker.Active() {
		return
	}
	s.tracker = nil
}

// Close tears the session down: vote cancelled, tracker removed,
// playback stopped and the voice channel left.
func (s *Session) Close() {
	if v := s.SkipVote(); v != nil {
		v.Cancel("session closed")
	}
	if t := s.Tracker(); t != nil {
		t.Stop()
	}
	s.cancel()
	if err := s.Player.Stop(true); err != nil && !errors.Is(err, player.ErrNoTrackPlaying) {
		log.Printf("[WARN] [Session %s] Stop on close failed: %v", s.GuildID, err)
	}
}
