package core

import (
	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/config"
	"github.com/illyaz/aquabot/internal/gate"
	"github.com/illyaz/aquabot/internal/guildconfig"
	"github.com/illyaz/aquabot/internal/music/player"
	"github.com/illyaz/aquabot/internal/music/resolver"
	"github.com/illyaz/aquabot/internal/music/session"
	"github.com/illyaz/aquabot/internal/storage"
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Run(ctx *MessageContext) error
}

// MessageContext is what the runtime hands a command when executing it.
type MessageContext struct {
	Session   *discordgo.Session
	Event     *discordgo.MessageCreate
	Args      []string
	Config    *config.Config
	Configs   *guildconfig.Cache
	Storage   *storage.Storage
	Sessions  *session.Registry
	Messenger *Messenger
	Resolver  *resolver.Resolver
	Gate      *gate.Gate

	// NewPlayer builds a player whose sink streams into this guild's
	// voice connection; supplied by the bot layer.
	NewPlayer func(guildID string) *player.Player
}

// GuildConfig is a shorthand for the invoking guild's settings.
func (ctx *MessageContext) GuildConfig() (*guildconfig.GuildConfig, error) {
	return ctx.Configs.Get(ctx.Event.GuildID)
}

type wrappedCommand struct {
	Command
	wrap func(ctx *MessageContext) error
}

func (w *wrappedCommand) Run(ctx *MessageContext) error {
	return w.wrap(ctx)
}
