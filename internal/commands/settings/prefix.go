// Package settings holds the guild configuration commands. Every
// mutation persists through the config cache before it is visible.
package settings

import (
	"fmt"

	"github.com/illyaz/aquabot/internal/core"
)

const maxPrefixLen = 3

type PrefixCommand struct{}

func (c *PrefixCommand) Name() string        { return "prefix" }
func (c *PrefixCommand) Description() string { return "Show or change the command prefix" }
func (c *PrefixCommand) Aliases() []string   { return []string{} }
func (c *PrefixCommand) Group() string       { return "settings" }

func (c *PrefixCommand) Run(ctx *core.MessageContext) error {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return err
	}

	if len(ctx.Args) == 0 {
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = ctx.Config.DefaultPrefix
		}
		return ctx.Messenger.Reply(ctx.Event.ChannelID, fmt.Sprintf("Current prefix: `%s`", prefix))
	}

	prefix := ctx.Args[0]
	if len(prefix) > maxPrefixLen {
		return ctx.Messenger.Reply(ctx.Event.ChannelID,
			fmt.Sprintf("Prefix must be at most %d characters.", maxPrefixLen))
	}

	updated := *cfg
	updated.Prefix = prefix
	if err := ctx.Configs.Save(&updated); err != nil {
		return fmt.Errorf("prefix update failed: %w", err)
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, fmt.Sprintf("Prefix set to `%s`", prefix))
}
