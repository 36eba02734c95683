package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/core"
)

const queuePageSize = 10

type QueueCommand struct{}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the upcoming tracks" }
func (c *QueueCommand) Aliases() []string   { return []string{"q"} }
func (c *QueueCommand) Group() string       { return "music" }

func (c *QueueCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}

	var b strings.Builder
	if t := sess.Player.CurrentTrack(); t != nil {
		fmt.Fprintf(&b, "%s [%s](%s)\n\n", ctx.Config.Symbols.Play, t.Title, t.Source)
	}

	queue := sess.Player.Queue()
	if len(queue) == 0 && b.Len() == 0 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "The queue is empty.")
	}
	for i, t := range queue {
		if i == queuePageSize {
			fmt.Fprintf(&b, "…and %d more", len(queue)-queuePageSize)
			break
		}
		duration := "--"
		if t.Duration > 0 {
			duration = core.FormatDuration(t.Duration)
		}
		fmt.Fprintf(&b, "`%2d.` [%s](%s) `%s`\n", i+1, t.Title, t.Source, duration)
	}

	_, err = ctx.Messenger.SendEmbed(ctx.Event.ChannelID, &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: b.String(),
		Color:       core.EmbedColor,
	})
	return err
}
