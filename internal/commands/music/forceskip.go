package music

import (
	"errors"

	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/music/player"
)

type ForceSkipCommand struct{}

func (c *ForceSkipCommand) Name() string        { return "forceskip" }
func (c *ForceSkipCommand) Description() string { return "Skip the current track without a vote" }
func (c *ForceSkipCommand) Aliases() []string   { return []string{"fs"} }
func (c *ForceSkipCommand) Group() string       { return "music" }

func (c *ForceSkipCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}
	if v := sess.SkipVote(); v != nil {
		v.Cancel("force skipped")
	}

	// Suspend looping so the forced skip is not immediately replayed.
	p := sess.Player
	looping := p.Looping()
	if looping {
		p.SetLooping(false)
	}
	err = p.Skip()
	if looping {
		p.SetLooping(true)
	}
	if err != nil {
		if errors.Is(err, player.ErrNoTrackPlaying) {
			return replyErr(ctx, err)
		}
		return err
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, ctx.Config.Symbols.CheckMark+" Skipped")
}
