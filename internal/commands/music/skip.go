package music

import (
	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/music/vote"
)

type SkipCommand struct{}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Vote to skip the current track" }
func (c *SkipCommand) Aliases() []string   { return []string{"voteskip"} }
func (c *SkipCommand) Group() string       { return "music" }

func (c *SkipCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}

	if existing := sess.SkipVote(); existing != nil {
		return ctx.Messenger.Reply(ctx.Event.ChannelID,
			"A skip vote is already running, react on the existing message to vote.")
	}

	v, err := vote.StartSkipVote(ctx.Gate, ctx.Messenger, sess.Player, ctx.Messenger, vote.SkipVoteParams{
		GuildID:     ctx.Event.GuildID,
		ChannelID:   ctx.Event.ChannelID,
		RequesterID: ctx.Event.Author.ID,
		Accept:      ctx.Config.Symbols.CheckMark,
		Window:      ctx.Config.SkipVoteWindow,
		OnResolved:  sess.ClearSkipVote,
	})
	if err != nil {
		return replyErr(ctx, err)
	}
	if v == nil {
		// Under two listeners, the skip already happened.
		return nil
	}

	if err := sess.SetSkipVote(v); err != nil {
		// Lost a race with another starter; retire the duplicate.
		v.Cancel("duplicate vote")
		return ctx.Messenger.Reply(ctx.Event.ChannelID,
			"A skip vote is already running, react on the existing message to vote.")
	}
	return nil
}
