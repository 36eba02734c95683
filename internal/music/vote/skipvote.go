package vote

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/gate"
	"github.com/illyaz/aquabot/pkg/resettimer"
)

// SkipVoteParams configures a skip vote for one playback session.
type SkipVoteParams struct {
	GuildID     string
	ChannelID   string
	RequesterID string
	Accept      string // emoji that counts as a vote
	Window      time.Duration

	// OnResolved runs exactly once when the vote reaches a terminal
	// state, so the owner can release its single-flight slot.
	OnResolved func()
}

// SkipVote is a quorum vote to force-skip the current track. The
// requester's intent is implied by starting the vote; their reaction
// does not count. Each vote change pushes the expiry window out.
type SkipVote struct {
	gate      *gate.Gate
	messenger Messenger
	playback  Playback
	params    SkipVoteParams
	messageID string
	title     string

	mu        sync.Mutex
	done      bool
	voters    map[string]struct{}
	threshold int
	timer     *resettimer.Timer
}

// StartSkipVote counts the listeners sharing the playback voice channel
// and opens a vote. With fewer than two listeners the skip executes
// straight away and no vote is returned.
func StartSkipVote(g *gate.Gate, m Messenger, p Playback, presence VoicePresence, params SkipVoteParams) (*SkipVote, error) {
	track := p.CurrentTrack()
	if track == nil {
		return nil, fmt.Errorf("nothing is playing")
	}

	users, err := presence.VoiceChannelUsers(params.GuildID, p.VoiceChannelID())
	if err != nil {
		return nil, fmt.Errorf("voice channel lookup failed: %w", err)
	}
	listeners := 0
	for _, id := range users {
		if id != m.SelfID() {
			listeners++
		}
	}

	if listeners < 2 {
		log.Printf("[INFO] [SkipVote %s] Not enough listeners (%d), skipping without a vote", params.GuildID, listeners)
		executeSkip(p)
		if err := m.Reply(params.ChannelID, params.Accept+" Skipped"); err != nil {
			log.Printf("[WARN] [SkipVote %s] Skip reply failed: %v", params.GuildID, err)
		}
		return nil, nil
	}

	v := &SkipVote{
		gate:      g,
		messenger: m,
		playback:  p,
		params:    params,
		title:     track.Title,
		voters:    map[string]struct{}{},
		threshold: listeners * 3 / 4,
	}

	msg, err := m.SendEmbed(params.ChannelID, v.tallyEmbed(0, colorActive, ""))
	if err != nil {
		return nil, fmt.Errorf("skip vote send failed: %w", err)
	}
	v.messageID = msg.ID

	if err := m.AddReaction(params.ChannelID, msg.ID, params.Accept); err != nil {
		log.Printf("[WARN] [SkipVote %s] Failed to attach vote reaction: %v", params.GuildID, err)
	}

	v.timer = resettimer.After(params.Window, v.onTimeout)
	g.Bind(msg.ID, v)
	return v, nil
}

func (v *SkipVote) MessageID() string {
	return v.messageID
}

// Active reports whether the vote can still be influenced.
func (v *SkipVote) Active() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.done
}

func (v *SkipVote) OnReactionAdded(r gate.Reaction) {
	if r.Emoji != v.params.Accept {
		return
	}
	v.RegisterVote(r.UserID)
}

func (v *SkipVote) OnReactionRemoved(r gate.Reaction) {
	if r.Emoji != v.params.Accept {
		return
	}
	v.UnregisterVote(r.UserID)
}

// OnReactionsCleared wipes the tally; someone with manage-messages
// stripped the reactions, so the recorded votes no longer exist.
func (v *SkipVote) OnReactionsCleared(string) {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return
	}
	v.voters = map[string]struct{}{}
	v.timer.Reset(v.params.Window)
	v.mu.Unlock()
	v.renderTally(0, colorActive, "")
}

// OnMessageDeleted cancels the vote; there is nothing left to strip or
// re-render.
func (v *SkipVote) OnMessageDeleted(string) {
	if !v.settle() {
		return
	}
	log.Printf("[INFO] [SkipVote %s] Vote message deleted, cancelling", v.params.GuildID)
	v.finishResolved()
}

// RegisterVote records userID's vote. The requester and the bot are not
// eligible; a repeat vote is a no-op. Reaching the threshold approves
// the vote and performs the skip.
func (v *SkipVote) RegisterVote(userID string) {
	if userID == v.params.RequesterID || userID == v.messenger.SelfID() {
		return
	}

	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return
	}
	if _, ok := v.voters[userID]; ok {
		v.mu.Unlock()
		return
	}
	v.voters[userID] = struct{}{}
	count := len(v.voters)

	if count >= v.threshold {
		v.done = true
		v.timer.Stop()
		v.mu.Unlock()
		v.approve(count)
		return
	}

	v.timer.Reset(v.params.Window)
	v.mu.Unlock()
	v.renderTally(count, colorActive, "")
}

// UnregisterVote withdraws a vote. The count may drop to zero without
// cancelling the session.
func (v *SkipVote) UnregisterVote(userID string) {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return
	}
	if _, ok := v.voters[userID]; !ok {
		v.mu.Unlock()
		return
	}
	delete(v.voters, userID)
	count := len(v.voters)
	v.timer.Reset(v.params.Window)
	v.mu.Unlock()
	v.renderTally(count, colorActive, "")
}

// Cancel terminates the vote without skipping, for track-end or session
// teardown.
func (v *SkipVote) Cancel(reason string) {
	if !v.settle() {
		return
	}
	log.Printf("[INFO] [SkipVote %s] Vote cancelled: %s", v.params.GuildID, reason)
	v.renderCancelled()
	v.stripReactions()
	v.finishResolved()
}

func (v *SkipVote) onTimeout() {
	if !v.settle() {
		return
	}
	log.Printf("[INFO] [SkipVote %s] Vote timed out", v.params.GuildID)
	v.renderCancelled()
	v.stripReactions()
	v.finishResolved()
}

// settle attempts the single terminal transition. It returns false when
// another path already resolved the vote.
func (v *SkipVote) settle() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.done {
		return false
	}
	v.done = true
	v.timer.Stop()
	return true
}

func (v *SkipVote) approve(count int) {
	log.Printf("[INFO] [SkipVote %s] Vote approved with %d/%d", v.params.GuildID, count, v.threshold)
	v.renderTally(count, colorApproved, "Approved")
	executeSkip(v.playback)
	if err := v.messenger.Reply(v.params.ChannelID, v.params.Accept+" Skipped"); err != nil {
		log.Printf("[WARN] [SkipVote %s] Skip reply failed: %v", v.params.GuildID, err)
	}
	v.finishResolved()
}

// executeSkip forces an advance even when looping would replay the
// current track, then restores the loop setting.
func executeSkip(p Playback) {
	looping := p.Looping()
	if looping {
		p.SetLooping(false)
	}
	if err := p.Skip(); err != nil {
		log.Printf("[WARN] [SkipVote] Skip failed: %v", err)
	}
	if looping {
		p.SetLooping(true)
	}
}

func (v *SkipVote) finishResolved() {
	v.gate.Unbind(v.messageID)
	if v.params.OnResolved != nil {
		v.params.OnResolved()
	}
}

func (v *SkipVote) renderCancelled() {
	v.mu.Lock()
	count := len(v.voters)
	v.mu.Unlock()
	v.renderTally(count, colorCancelled, "Cancelled")
}

func (v *SkipVote) renderTally(count int, color int, status string) {
	if status == "" {
		status = fmt.Sprintf("%d / %d", count, v.threshold)
	}
	if err := v.messenger.EditEmbed(v.params.ChannelID, v.messageID, v.tallyEmbed(count, color, status)); err != nil {
		log.Printf("[WARN] [SkipVote %s] Tally edit failed: %v", v.params.GuildID, err)
	}
}

func (v *SkipVote) tallyEmbed(count int, color int, status string) *discordgo.MessageEmbed {
	if status == "" {
		status = fmt.Sprintf("%d / %d", count, v.threshold)
	}
	return &discordgo.MessageEmbed{
		Title:       "Skip vote",
		Description: fmt.Sprintf("React with %s to skip **%s**", v.params.Accept, v.title),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: status},
		},
	}
}

func (v *SkipVote) stripReactions() {
	if !v.messenger.HasChannelPermission(v.params.ChannelID, discordgo.PermissionManageMessages) {
		return
	}
	if err := v.messenger.RemoveAllReactions(v.params.ChannelID, v.messageID); err != nil {
		log.Printf("[WARN] [SkipVote %s] Failed to strip reactions: %v", v.params.GuildID, err)
	}
}
