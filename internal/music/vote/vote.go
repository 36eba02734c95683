// Package vote holds the reaction-driven decision primitives: a
// two-choice confirmation dialog and the quorum skip vote. Both bind a
// single message through the reaction gate, arm a timer, and guarantee
// exactly one terminal outcome.
package vote

import (
	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/music/player"
)

// Messenger is the slice of the chat transport these primitives need.
type Messenger interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error
	Reply(channelID, content string) error
	AddReaction(channelID, messageID, emoji string) error
	RemoveAllReactions(channelID, messageID string) error
	HasChannelPermission(channelID string, perm int64) bool
	SelfID() string
}

// Playback is the slice of the audio backend a skip vote drives.
type Playback interface {
	Looping() bool
	SetLooping(v bool)
	Skip() error
	CurrentTrack() *player.Track
	VoiceChannelID() string
}

// VoicePresence enumerates the users connected to a voice channel.
type VoicePresence interface {
	VoiceChannelUsers(guildID, channelID string) ([]string, error)
}

const (
	colorActive    = 0x00AFF4
	colorApproved  = 0x57F287
	colorCancelled = 0xED4245
)
