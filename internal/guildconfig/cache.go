package guildconfig

import (
	"errors"
	"sync"
)

// Cache is a read-through snapshot cache over a Store. A miss loads the
// guild's record, creating and persisting a default one on first contact,
// so a cached entry always corresponds to a persisted record. Writers go
// to the store first, then replace the snapshot; readers get whatever
// snapshot was published last.
//
// Racing first-contact Gets from different goroutines may both attempt
// the default insert; the primary-key constraint makes the loser a no-op
// and both re-read the winner's record. Staleness after an out-of-process
// write is a known limitation: nothing invalidates the snapshot from
// outside this process.
type Cache struct {
	store Store

	mu      sync.RWMutex
	configs map[string]*GuildConfig
}

func NewCache(store Store) *Cache {
	return &Cache{
		store:   store,
		configs: make(map[string]*GuildConfig),
	}
}

// Get returns the guild's settings, creating a persisted default record
// on first access. It fails only when the backing store does.
func (c *Cache) Get(guildID string) (*GuildConfig, error) {
	c.mu.RLock()
	cfg, ok := c.configs[guildID]
	c.mu.RUnlock()
	if ok {
		return cfg, nil
	}

	cfg, err := c.store.Get(guildID)
	if errors.Is(err, ErrNotFound) {
		def := &GuildConfig{GuildID: guildID, Music: DefaultMusicConfig()}
		if err := c.store.Create(def); err != nil {
			return nil, err
		}
		// Re-read so a racing creator's record wins visibly.
		cfg, err = c.store.Get(guildID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.configs[guildID]; ok {
		// Another goroutine published first; keep its snapshot.
		return existing, nil
	}
	c.configs[guildID] = cfg
	return cfg, nil
}

// Update replaces the cached snapshot. The caller must have persisted cfg
// already; Update never touches the store.
func (c *Cache) Update(guildID string, cfg *GuildConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[guildID] = cfg
}

// Save persists cfg and then publishes it to the cache, in that order, so
// readers never observe an unpersisted snapshot. The cache is untouched
// when the write fails.
func (c *Cache) Save(cfg *GuildConfig) error {
	if err := c.store.Put(cfg); err != nil {
		return err
	}
	c.Update(cfg.GuildID, cfg)
	return nil
}
