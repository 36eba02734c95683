package settings

import (
	"fmt"

	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/guildconfig"
)

type coreMusic = guildconfig.MusicConfig

// toggleSetting flips one MusicConfig bool, persisting before the reply.
func toggleSetting(ctx *core.MessageContext, label string, field func(*coreMusic) *bool) error {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return err
	}

	updated := *cfg
	flag := field(&updated.Music)
	*flag = !*flag
	if err := ctx.Configs.Save(&updated); err != nil {
		return fmt.Errorf("%s update failed: %w", label, err)
	}

	state := "off"
	if *flag {
		state = "on"
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, fmt.Sprintf("%s is now **%s**.", label, state))
}
