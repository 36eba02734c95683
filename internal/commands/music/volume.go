package music

import (
	"fmt"
	"strconv"

	"github.com/illyaz/aquabot/internal/core"
)

type VolumeCommand struct{}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Show or set playback volume (0-200)" }
func (c *VolumeCommand) Aliases() []string   { return []string{"vol"} }
func (c *VolumeCommand) Group() string       { return "music" }

func (c *VolumeCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}

	if len(ctx.Args) == 0 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID,
			fmt.Sprintf("🔊 Volume is %d%%", sess.Player.Volume()))
	}

	percent, err := strconv.Atoi(ctx.Args[0])
	if err != nil || percent < 0 || percent > 200 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "Volume must be between 0 and 200.")
	}
	sess.Player.SetVolume(percent)
	return ctx.Messenger.Reply(ctx.Event.ChannelID, fmt.Sprintf("🔊 Volume set to %d%%", percent))
}
