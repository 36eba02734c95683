package music

import (
	"net/http"
	"time"

	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/music/nowplaying"
	"github.com/illyaz/aquabot/internal/music/player"
)

var liveClient = &http.Client{Timeout: 10 * time.Second}

type NowPlayingCommand struct{}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show a live now playing display" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }
func (c *NowPlayingCommand) Group() string       { return "music" }

func (c *NowPlayingCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}

	fetchLive := func(t *player.Track) (time.Time, error) {
		return nowplaying.YouTubeLiveStart(liveClient, t)
	}

	tracker, err := nowplaying.Start(ctx.Gate, ctx.Messenger, sess.Player,
		ctx.Event.GuildID, ctx.Event.ChannelID, fetchLive, sess.ClearTracker)
	if err != nil {
		return replyErr(ctx, err)
	}

	// Replaces and deletes any previous display for this session.
	sess.SetTracker(tracker)
	return nil
}
