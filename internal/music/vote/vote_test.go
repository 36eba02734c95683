package vote

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/music/player"
)

// fakeMessenger records transport calls for assertions.
type fakeMessenger struct {
	mu        sync.Mutex
	nextID    int
	sendErr   error
	canManage bool

	sent      []*discordgo.MessageEmbed
	edits     []editCall
	replies   []string
	reactions []string
	stripped  []string
}

type editCall struct {
	messageID string
	embed     *discordgo.MessageEmbed
}

func (m *fakeMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.nextID++
	m.sent = append(m.sent, embed)
	return &discordgo.Message{ID: fmt.Sprintf("msg-%d", m.nextID), ChannelID: channelID}, nil
}

func (m *fakeMessenger) EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, editCall{messageID, embed})
	return nil
}

func (m *fakeMessenger) Reply(channelID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, content)
	return nil
}

func (m *fakeMessenger) AddReaction(channelID, messageID, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reactions = append(m.reactions, emoji)
	return nil
}

func (m *fakeMessenger) RemoveAllReactions(channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stripped = append(m.stripped, messageID)
	return nil
}

func (m *fakeMessenger) HasChannelPermission(channelID string, perm int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canManage
}

func (m *fakeMessenger) SelfID() string { return "bot" }

func (m *fakeMessenger) lastEdit() *discordgo.MessageEmbed {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return nil
	}
	return m.edits[len(m.edits)-1].embed
}

func (m *fakeMessenger) replyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies)
}

// fakePlayback tracks loop state and skip calls.
type fakePlayback struct {
	mu      sync.Mutex
	looping bool
	track   *player.Track
	skips   int

	// loopDuringSkip records what the loop flag was when Skip ran.
	loopDuringSkip []bool
}

func (p *fakePlayback) Looping() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.looping
}

func (p *fakePlayback) SetLooping(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.looping = v
}

func (p *fakePlayback) Skip() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skips++
	p.loopDuringSkip = append(p.loopDuringSkip, p.looping)
	return nil
}

func (p *fakePlayback) CurrentTrack() *player.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

func (p *fakePlayback) VoiceChannelID() string { return "vc-1" }

func (p *fakePlayback) skipCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skips
}

// fakePresence returns a fixed listener roster.
type fakePresence struct {
	users []string
}

func (p *fakePresence) VoiceChannelUsers(guildID, channelID string) ([]string, error) {
	return p.users, nil
}
