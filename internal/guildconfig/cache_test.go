package guildconfig

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mimics the sqlite store, including its primary-key semantics:
// Create silently loses to an existing record.
type memStore struct {
	mu       sync.Mutex
	records  map[string]*GuildConfig
	creates  int
	getErr   error
	putErr   error
	wrapMiss bool
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*GuildConfig)}
}

func (m *memStore) Get(guildID string) (*GuildConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	cfg, ok := m.records[guildID]
	if !ok {
		if m.wrapMiss {
			return nil, fmt.Errorf("guild %s: %w", guildID, ErrNotFound)
		}
		return nil, ErrNotFound
	}
	cp := *cfg
	return &cp, nil
}

func (m *memStore) Put(cfg *GuildConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	cp := *cfg
	m.records[cfg.GuildID] = &cp
	return nil
}

func (m *memStore) Create(cfg *GuildConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if _, ok := m.records[cfg.GuildID]; ok {
		return nil // conflict, first writer wins
	}
	cp := *cfg
	m.records[cfg.GuildID] = &cp
	return nil
}

func TestGetCreatesDefaultOnFirstAccess(t *testing.T) {
	store := newMemStore()
	cache := NewCache(store)

	cfg, err := cache.Get("g1")
	require.NoError(t, err)

	assert.Equal(t, "g1", cfg.GuildID)
	assert.Empty(t, cfg.Prefix)
	assert.Equal(t, 100, cfg.Music.DefaultVolume)
	assert.True(t, cfg.Music.PreventDuplicates)
	assert.False(t, cfg.Music.DeleteUserCommand)

	// The default was persisted before being cached.
	persisted, err := store.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, cfg.Music, persisted.Music)
}

func TestGetCreatesDefaultOnWrappedMiss(t *testing.T) {
	store := newMemStore()
	store.wrapMiss = true
	cache := NewCache(store)

	cfg, err := cache.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", cfg.GuildID)
	assert.Equal(t, 1, store.creates)
}

func TestGetIsIdempotent(t *testing.T) {
	store := newMemStore()
	cache := NewCache(store)

	first, err := cache.Get("g1")
	require.NoError(t, err)
	second, err := cache.Get("g1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.creates)
}

func TestConcurrentFirstAccessYieldsOneVisibleRecord(t *testing.T) {
	store := newMemStore()
	cache := NewCache(store)

	const n = 16
	results := make([]*GuildConfig, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := cache.Get("g1")
			require.NoError(t, err)
			results[i] = cfg
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i], "all callers must see one snapshot")
	}
	persisted, err := store.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, DefaultMusicConfig(), persisted.Music)
}

func TestGetDoesNotHitStoreOnCacheHit(t *testing.T) {
	store := newMemStore()
	cache := NewCache(store)

	_, err := cache.Get("g1")
	require.NoError(t, err)

	store.getErr = errors.New("store down")
	cfg, err := cache.Get("g1")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestGetPropagatesStoreFailure(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("io error")
	cache := NewCache(store)

	_, err := cache.Get("g1")
	assert.Error(t, err)
}

func TestSavePersistsBeforePublishing(t *testing.T) {
	store := newMemStore()
	cache := NewCache(store)

	orig, err := cache.Get("g1")
	require.NoError(t, err)

	updated := *orig
	updated.Prefix = "!!"
	store.putErr = errors.New("disk full")
	require.Error(t, cache.Save(&updated))

	// Failed write must not mutate the cache.
	cur, err := cache.Get("g1")
	require.NoError(t, err)
	assert.Empty(t, cur.Prefix)

	store.putErr = nil
	require.NoError(t, cache.Save(&updated))
	cur, err = cache.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, "!!", cur.Prefix)
}

func TestUpdateIsLastWriterWins(t *testing.T) {
	store := newMemStore()
	cache := NewCache(store)

	a := &GuildConfig{GuildID: "g1", Prefix: "a!", Music: DefaultMusicConfig()}
	b := &GuildConfig{GuildID: "g1", Prefix: "b!", Music: DefaultMusicConfig()}
	cache.Update("g1", a)
	cache.Update("g1", b)

	cfg, err := cache.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, "b!", cfg.Prefix)
}
