package session

import (
	"sync"
	"time"

	"github.com/illyaz/aquabot/internal/music/player"
)

// Registry maps guild ids to sessions, one live session per guild.
type Registry struct {
	tick time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(tick time.Duration) *Registry {
	return &Registry{
		tick:     tick,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the guild's session, building the player via
// factory on first use.
func (r *Registry) GetOrCreate(guildID string, factory func() *player.Player) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[guildID]; ok {
		return s
	}
	s := newSession(guildID, factory(), r.tick)
	r.sessions[guildID] = s
	return s
}

// Get returns the guild's session when one exists.
func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// Remove closes and forgets the guild's session.
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	s, ok := r.sessions[guildID]
	delete(r.sessions, guildID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll tears down every session, for shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
