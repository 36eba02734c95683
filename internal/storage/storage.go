// Package storage keeps per-guild command history in a JSON-file datastore.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/datastore"
)

const commandHistoryLimit int = 20

type Storage struct {
	ds *datastore.DataStore
}

type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

// New opens the datastore at filePath. ctx bounds the store's background
// save goroutine.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord loads the guild's record, trimming overlong history.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	exists, err := s.ds.Get(guildID, &record)
	if err != nil {
		return nil, fmt.Errorf("error reading guild record: %w", err)
	}
	if !exists {
		newRecord := &Record{CommandsHistoryList: []CommandHistoryRecord{}}
		if err := s.ds.Set(guildID, newRecord); err != nil {
			return nil, fmt.Errorf("error creating guild record: %w", err)
		}
		return newRecord, nil
	}

	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}

	return &record, nil
}

// AppendCommandToHistory appends a command history record for a guild
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	return s.ds.Set(guildID, record)
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	return record.CommandsHistoryList, nil
}
