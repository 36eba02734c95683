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

type Result int

const (
	ResultYes Result = iota
	ResultNo
	ResultTimedOut
)

func (r Result) String() string {
	switch r {
	case ResultYes:
		return "yes"
	case ResultNo:
		return "no"
	default:
		return "timed out"
	}
}

// ConfirmParams configures a confirmation dialog.
type ConfirmParams struct {
	ChannelID string
	Prompt    *discordgo.MessageEmbed
	Accept    string // emoji resolving to yes
	Reject    string // emoji resolving to no
	Timeout   time.Duration

	// OnResolved, when set, runs after the dialog settles so the
	// caller can delete or re-render the prompt message.
	OnResolved func(res Result, channelID, messageID string)
}

// Confirm is a single-message yes/no dialog. It resolves exactly once:
// from the first matching reaction by anyone but the bot, or from the
// timeout.
type Confirm struct {
	gate      *gate.Gate
	messenger Messenger
	params    ConfirmParams
	messageID string

	mu    sync.Mutex
	done  bool
	timer *resettimer.Timer

	result chan Result
}

// StartConfirm posts the prompt, attaches the two reactions, and arms
// the timeout. A failed send aborts before any timer exists.
func StartConfirm(g *gate.Gate, m Messenger, params ConfirmParams) (*Confirm, error) {
	msg, err := m.SendEmbed(params.ChannelID, params.Prompt)
	if err != nil {
		return nil, fmt.Errorf("confirm prompt send failed: %w", err)
	}

	c := &Confirm{
		gate:      g,
		messenger: m,
		params:    params,
		messageID: msg.ID,
		result:    make(chan Result, 1),
	}

	for _, emoji := range []string{params.Accept, params.Reject} {
		if err := m.AddReaction(params.ChannelID, msg.ID, emoji); err != nil {
			log.Printf("[WARN] [Confirm] Failed to attach reaction %s: %v", emoji, err)
		}
	}

	// Arm before binding so a reaction can never observe a nil timer.
	c.timer = resettimer.After(params.Timeout, func() {
		c.resolve(ResultTimedOut)
	})
	g.Bind(msg.ID, c)
	return c, nil
}

// Result delivers the outcome; it is buffered so the dialog never
// blocks on a caller that stopped listening.
func (c *Confirm) Result() <-chan Result {
	return c.result
}

func (c *Confirm) MessageID() string {
	return c.messageID
}

func (c *Confirm) OnReactionAdded(r gate.Reaction) {
	if r.UserID == c.messenger.SelfID() {
		return
	}
	switch r.Emoji {
	case c.params.Accept:
		c.resolve(ResultYes)
	case c.params.Reject:
		c.resolve(ResultNo)
	}
}

func (c *Confirm) OnReactionRemoved(gate.Reaction) {}

func (c *Confirm) OnReactionsCleared(string) {}

// OnMessageDeleted treats losing the prompt as a rejection.
func (c *Confirm) OnMessageDeleted(string) {
	c.resolve(ResultNo)
}

func (c *Confirm) resolve(res Result) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.timer.Stop()
	c.mu.Unlock()

	c.gate.Unbind(c.messageID)
	c.result <- res
	if c.params.OnResolved != nil {
		c.params.OnResolved(res, c.params.ChannelID, c.messageID)
	}
}
