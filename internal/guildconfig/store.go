package guildconfig

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by Store.Get when a guild has no record yet.
var ErrNotFound = errors.New("guild config not found")

// Store is the backing store for guild settings.
type Store interface {
	Get(guildID string) (*GuildConfig, error)
	Put(cfg *GuildConfig) error
	// Create inserts cfg unless a record for the guild already exists.
	// A lost insert race is not an error; the caller re-reads to pick up
	// the winner.
	Create(cfg *GuildConfig) error
}

// SQLStore is a sqlite-backed Store.
type SQLStore struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and
// migrates the guild config schema.
func Open(path string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&GuildConfig{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(guildID string) (*GuildConfig, error) {
	var cfg GuildConfig
	err := s.db.Take(&cfg, "guild_id = ?", guildID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guild config: %w", err)
	}
	return &cfg, nil
}

func (s *SQLStore) Put(cfg *GuildConfig) error {
	if err := s.db.Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to save guild config: %w", err)
	}
	return nil
}

func (s *SQLStore) Create(cfg *GuildConfig) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoNothing: true,
	}).Create(cfg).Error
	if err != nil {
		return fmt.Errorf("failed to create guild config: %w", err)
	}
	return nil
}
