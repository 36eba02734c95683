package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/storage"
)

const EmbedColor = 0x00AFF4

// FindUserVoiceState locates the voice channel a user is connected to.
func FindUserVoiceState(s *discordgo.Session, guildID, userID string) (*discordgo.VoiceState, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil, err
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs, nil
		}
	}
	return nil, errors.New("user is not in a voice channel")
}

// FormatDuration renders hh:mm:ss for embeds and queue listings.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// LogCommand records a command invocation in the guild's history.
func LogCommand(s *discordgo.Session, ctx *MessageContext, userID, username, commandName string) error {
	channelName := ""
	if channel, err := s.State.Channel(ctx.Event.ChannelID); err == nil {
		channelName = channel.Name
	}
	guildName := ""
	if guild, err := s.State.Guild(ctx.Event.GuildID); err == nil {
		guildName = guild.Name
	}
	return ctx.Storage.AppendCommandToHistory(ctx.Event.GuildID, storage.CommandHistoryRecord{
		ChannelID:   ctx.Event.ChannelID,
		ChannelName: channelName,
		GuildName:   guildName,
		UserID:      userID,
		Username:    username,
		Command:     commandName,
		Datetime:    time.Now(),
	})
}
