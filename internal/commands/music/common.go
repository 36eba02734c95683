// Package music holds the prefix commands driving playback: queueing,
// transport controls, the skip vote, and the now playing display.
package music

import (
	"errors"

	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/music/session"
)

var errNoSession = errors.New("nothing is playing in this server")

// activeSession returns the guild's session or a user-facing error.
func activeSession(ctx *core.MessageContext) (*session.Session, error) {
	s, ok := ctx.Sessions.Get(ctx.Event.GuildID)
	if !ok {
		return nil, errNoSession
	}
	return s, nil
}

// replyErr surfaces a precondition failure to the user without failing
// the command itself.
func replyErr(ctx *core.MessageContext, err error) error {
	return ctx.Messenger.Reply(ctx.Event.ChannelID, ctx.Config.Symbols.CrossMark+" "+err.Error())
}
