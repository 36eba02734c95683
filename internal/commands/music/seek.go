package music

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/illyaz/aquabot/internal/core"
)

type SeekCommand struct{}

func (c *SeekCommand) Name() string        { return "seek" }
func (c *SeekCommand) Description() string { return "Jump to a position, e.g. seek 1:30" }
func (c *SeekCommand) Aliases() []string   { return []string{} }
func (c *SeekCommand) Group() string       { return "music" }

func (c *SeekCommand) Run(ctx *core.MessageContext) error {
	if len(ctx.Args) == 0 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "Usage: seek <seconds or mm:ss>")
	}
	pos, err := parsePosition(ctx.Args[0])
	if err != nil {
		return replyErr(ctx, err)
	}

	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}
	actual, err := sess.Player.Seek(pos)
	if err != nil {
		return replyErr(ctx, err)
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID,
		fmt.Sprintf("%s Jumped to %s", ctx.Config.Symbols.Play, core.FormatDuration(actual)))
}

// parsePosition accepts plain seconds, mm:ss, or hh:mm:ss.
func parsePosition(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, errors.New("position must be seconds, mm:ss, or hh:mm:ss")
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad position %q", s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}
