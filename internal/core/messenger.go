package core

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Messenger wraps the Discord session behind the small surface the
// music components talk to. Message edits run through a rate limiter so
// position ticks and tally updates cannot trip the per-channel edit
// limit.
type Messenger struct {
	s     *discordgo.Session
	edits *rate.Limiter
}

func NewMessenger(s *discordgo.Session) *Messenger {
	return &Messenger{
		s:     s,
		edits: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

func (m *Messenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return m.s.ChannelMessageSendEmbed(channelID, embed)
}

func (m *Messenger) EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	if err := m.edits.Wait(context.Background()); err != nil {
		return err
	}
	_, err := m.s.ChannelMessageEditEmbed(channelID, messageID, embed)
	return err
}

func (m *Messenger) Reply(channelID, content string) error {
	_, err := m.s.ChannelMessageSend(channelID, content)
	return err
}

func (m *Messenger) DeleteMessage(channelID, messageID string) error {
	return m.s.ChannelMessageDelete(channelID, messageID)
}

func (m *Messenger) AddReaction(channelID, messageID, emoji string) error {
	return m.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (m *Messenger) RemoveAllReactions(channelID, messageID string) error {
	return m.s.MessageReactionsRemoveAll(channelID, messageID)
}

// HasChannelPermission checks the bot's own effective permissions.
func (m *Messenger) HasChannelPermission(channelID string, perm int64) bool {
	perms, err := m.s.State.UserChannelPermissions(m.SelfID(), channelID)
	if err != nil {
		return false
	}
	return perms&perm != 0
}

func (m *Messenger) SelfID() string {
	if m.s.State != nil && m.s.State.User != nil {
		return m.s.State.User.ID
	}
	return ""
}

// VoiceChannelUsers lists the user ids currently connected to a voice
// channel.
func (m *Messenger) VoiceChannelUsers(guildID, channelID string) ([]string, error) {
	guild, err := m.s.State.Guild(guildID)
	if err != nil {
		return nil, err
	}
	var users []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			users = append(users, vs.UserID)
		}
	}
	return users, nil
}
