package music

import (
	"github.com/illyaz/aquabot/internal/core"
)

type PauseCommand struct{}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause playback" }
func (c *PauseCommand) Aliases() []string   { return []string{} }
func (c *PauseCommand) Group() string       { return "music" }

func (c *PauseCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}
	if err := sess.Player.Pause(); err != nil {
		return replyErr(ctx, err)
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, ctx.Config.Symbols.Pause+" Paused")
}

type ResumeCommand struct{}

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume paused playback" }
func (c *ResumeCommand) Aliases() []string   { return []string{"unpause"} }
func (c *ResumeCommand) Group() string       { return "music" }

func (c *ResumeCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}
	if err := sess.Player.Resume(); err != nil {
		return replyErr(ctx, err)
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, ctx.Config.Symbols.Play+" Resumed")
}

type StopCommand struct{}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and leave the voice channel" }
func (c *StopCommand) Aliases() []string   { return []string{"leave"} }
func (c *StopCommand) Group() string       { return "music" }

func (c *StopCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Sessions.Remove(sess.GuildID)
	return ctx.Messenger.Reply(ctx.Event.ChannelID, ctx.Config.Symbols.Stop+" Stopped")
}

type LoopCommand struct{}

func (c *LoopCommand) Name() string        { return "loop" }
func (c *LoopCommand) Description() string { return "Toggle looping of the current track" }
func (c *LoopCommand) Aliases() []string   { return []string{"repeat"} }
func (c *LoopCommand) Group() string       { return "music" }

func (c *LoopCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}
	looping := !sess.Player.Looping()
	sess.Player.SetLooping(looping)
	if looping {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "🔁 Looping on")
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, "➡️ Looping off")
}

type ClearCommand struct{}

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Clear the queue, keeping the current track" }
func (c *ClearCommand) Aliases() []string   { return []string{} }
func (c *ClearCommand) Group() string       { return "music" }

func (c *ClearCommand) Run(ctx *core.MessageContext) error {
	sess, err := activeSession(ctx)
	if err != nil {
		return replyErr(ctx, err)
	}
	sess.Player.ClearQueue()
	return ctx.Messenger.Reply(ctx.Event.ChannelID, ctx.Config.Symbols.CheckMark+" Queue cleared")
}
