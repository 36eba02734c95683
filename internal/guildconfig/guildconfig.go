// Package guildconfig holds per-guild bot settings: the command prefix and
// the music options. Settings live in sqlite and are served through an
// in-memory read-through cache.
package guildconfig

import "time"

// MusicConfig is the music subsystem's per-guild settings. It is stored as
// a JSON column inside GuildConfig.
type MusicConfig struct {
	DJRoleID          string `json:"dj_role_id,omitempty"`
	DefaultVolume     int    `json:"default_volume"`
	PreventDuplicates bool   `json:"prevent_duplicates"`
	DeleteUserCommand bool   `json:"delete_user_command"`
}

// DefaultMusicConfig returns the settings a guild starts with.
func DefaultMusicConfig() MusicConfig {
	return MusicConfig{
		DefaultVolume:     100,
		PreventDuplicates: true,
		DeleteUserCommand: false,
	}
}

// GuildConfig is one guild's settings record. Prefix is empty until an
// admin sets one; callers fall back to the bot-wide default.
type GuildConfig struct {
	GuildID   string      `gorm:"primaryKey;size:20"`
	Prefix    string      `gorm:"size:3"`
	Music     MusicConfig `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
