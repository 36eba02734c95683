package music

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/music/player"
	"github.com/illyaz/aquabot/internal/music/vote"
)

type PlayCommand struct{}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a track or playlist by link" }
func (c *PlayCommand) Aliases() []string   { return []string{"p"} }
func (c *PlayCommand) Group() string       { return "music" }

func (c *PlayCommand) Run(ctx *core.MessageContext) error {
	return runPlay(ctx, false)
}

type PlayNextCommand struct{}

func (c *PlayNextCommand) Name() string        { return "playnext" }
func (c *PlayNextCommand) Description() string { return "Queue a track to play right after the current one" }
func (c *PlayNextCommand) Aliases() []string   { return []string{"pn"} }
func (c *PlayNextCommand) Group() string       { return "music" }

func (c *PlayNextCommand) Run(ctx *core.MessageContext) error {
	return runPlay(ctx, true)
}

// runPlay resolves the link and queues the result, at the back of the
// queue or, for playnext, at the front.
func runPlay(ctx *core.MessageContext, front bool) error {
	input := strings.TrimSpace(strings.Join(ctx.Args, " "))
	if input == "" {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "Usage: play <link>")
	}

	vs, err := core.FindUserVoiceState(ctx.Session, ctx.Event.GuildID, ctx.Event.Author.ID)
	if err != nil {
		return replyErr(ctx, err)
	}

	// Resolution can take a while; let the channel see we are on it.
	if err := ctx.Messenger.AddReaction(ctx.Event.ChannelID, ctx.Event.ID, ctx.Config.Symbols.Loading); err != nil {
		log.Printf("[WARN] Failed to add loading reaction: %v", err)
	}

	resolveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	tracks, err := ctx.Resolver.Resolve(resolveCtx, input)
	if e := ctx.Session.MessageReactionRemove(ctx.Event.ChannelID, ctx.Event.ID, ctx.Config.Symbols.Loading, "@me"); e != nil {
		log.Printf("[WARN] Failed to remove loading reaction: %v", e)
	}
	if err != nil {
		return replyErr(ctx, err)
	}

	cfg, err := ctx.GuildConfig()
	if err != nil {
		return err
	}

	sess := ctx.Sessions.GetOrCreate(ctx.Event.GuildID, func() *player.Player {
		return ctx.NewPlayer(ctx.Event.GuildID)
	})
	sess.Player.SetPreventDuplicates(cfg.Music.PreventDuplicates)

	if len(tracks) > 1 {
		return confirmPlaylist(ctx, sess.Player, vs.ChannelID, tracks, front)
	}
	return enqueue(ctx, sess.Player, vs.ChannelID, tracks, front)
}

// confirmPlaylist asks before dumping a whole playlist into the queue.
// Decline or timeout falls back to the first track only.
func confirmPlaylist(ctx *core.MessageContext, p *player.Player, voiceChannelID string, tracks []*player.Track, front bool) error {
	symbols := ctx.Config.Symbols
	_, err := vote.StartConfirm(ctx.Gate, ctx.Messenger, vote.ConfirmParams{
		ChannelID: ctx.Event.ChannelID,
		Prompt: &discordgo.MessageEmbed{
			Title:       "Playlist detected",
			Description: fmt.Sprintf("Add all **%d** tracks to the queue?", len(tracks)),
			Color:       core.EmbedColor,
		},
		Accept:  symbols.CheckMark,
		Reject:  symbols.CrossMark,
		Timeout: ctx.Config.ConfirmTimeout,
		OnResolved: func(res vote.Result, channelID, messageID string) {
			if err := ctx.Messenger.DeleteMessage(channelID, messageID); err != nil {
				log.Printf("[WARN] Failed to delete playlist prompt: %v", err)
			}
			chosen := tracks[:1]
			if res == vote.ResultYes {
				chosen = tracks
			}
			if err := enqueue(ctx, p, voiceChannelID, chosen, front); err != nil {
				log.Printf("[ERR] Playlist enqueue failed: %v", err)
			}
		},
	})
	return err
}

func enqueue(ctx *core.MessageContext, p *player.Player, voiceChannelID string, tracks []*player.Track, front bool) error {
	var added int
	if front {
		added = p.EnqueueFront(tracks...)
	} else {
		added = p.Enqueue(tracks...)
	}
	if added == 0 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "Nothing added, those tracks are already queued.")
	}

	if err := p.Play(voiceChannelID); err != nil {
		return replyErr(ctx, err)
	}

	symbols := ctx.Config.Symbols
	if added == 1 {
		t := tracks[0]
		embed := &discordgo.MessageEmbed{
			Description: fmt.Sprintf("%s Queued [%s](%s)", symbols.Notes, t.Title, t.Source),
			Color:       core.EmbedColor,
		}
		if t.Duration > 0 {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: core.FormatDuration(t.Duration)}
		}
		_, err := ctx.Messenger.SendEmbed(ctx.Event.ChannelID, embed)
		return err
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID,
		fmt.Sprintf("%s Queued **%d** tracks", symbols.Notes, added))
}
