package settings

import (
	"fmt"
	"strings"

	"github.com/illyaz/aquabot/internal/core"
)

type DJCommand struct{}

func (c *DJCommand) Name() string        { return "dj" }
func (c *DJCommand) Description() string { return "Set or clear the DJ role" }
func (c *DJCommand) Aliases() []string   { return []string{"djrole"} }
func (c *DJCommand) Group() string       { return "settings" }

func (c *DJCommand) Run(ctx *core.MessageContext) error {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return err
	}

	if len(ctx.Args) == 0 {
		if cfg.Music.DJRoleID == "" {
			return ctx.Messenger.Reply(ctx.Event.ChannelID, "No DJ role configured. Usage: dj <@role|role id|off>")
		}
		return ctx.Messenger.Reply(ctx.Event.ChannelID, fmt.Sprintf("DJ role: <@&%s>", cfg.Music.DJRoleID))
	}

	updated := *cfg
	arg := ctx.Args[0]
	if arg == "off" || arg == "none" {
		updated.Music.DJRoleID = ""
		if err := ctx.Configs.Save(&updated); err != nil {
			return fmt.Errorf("dj role update failed: %w", err)
		}
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "DJ role cleared, everyone can use DJ commands.")
	}

	roleID := parseRoleID(arg)
	if _, err := ctx.Session.State.Role(ctx.Event.GuildID, roleID); err != nil {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "That does not look like a role in this server.")
	}

	updated.Music.DJRoleID = roleID
	if err := ctx.Configs.Save(&updated); err != nil {
		return fmt.Errorf("dj role update failed: %w", err)
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, fmt.Sprintf("DJ role set to <@&%s>", roleID))
}

// parseRoleID strips the <@&...> mention wrapper when present.
func parseRoleID(arg string) string {
	arg = strings.TrimPrefix(arg, "<@&")
	return strings.TrimSuffix(arg, ">")
}
