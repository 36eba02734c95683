package settings

import (
	"fmt"
	"strconv"

	"github.com/illyaz/aquabot/internal/core"
)

type DefaultVolumeCommand struct{}

func (c *DefaultVolumeCommand) Name() string        { return "defaultvolume" }
func (c *DefaultVolumeCommand) Description() string { return "Set the volume new sessions start with" }
func (c *DefaultVolumeCommand) Aliases() []string   { return []string{} }
func (c *DefaultVolumeCommand) Group() string       { return "settings" }

func (c *DefaultVolumeCommand) Run(ctx *core.MessageContext) error {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return err
	}

	if len(ctx.Args) == 0 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID,
			fmt.Sprintf("Default volume: %d%%", cfg.Music.DefaultVolume))
	}

	percent, convErr := strconv.Atoi(ctx.Args[0])
	if convErr != nil || percent < 0 || percent > 200 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "Volume must be between 0 and 200.")
	}

	updated := *cfg
	updated.Music.DefaultVolume = percent
	if err := ctx.Configs.Save(&updated); err != nil {
		return fmt.Errorf("default volume update failed: %w", err)
	}
	return ctx.Messenger.Reply(ctx.Event.ChannelID, fmt.Sprintf("Default volume set to %d%%", percent))
}

type PreventDuplicatesCommand struct{}

func (c *PreventDuplicatesCommand) Name() string { return "preventduplicates" }
func (c *PreventDuplicatesCommand) Description() string {
	return "Toggle rejection of duplicate queue entries"
}
func (c *PreventDuplicatesCommand) Aliases() []string { return []string{} }
func (c *PreventDuplicatesCommand) Group() string     { return "settings" }

func (c *PreventDuplicatesCommand) Run(ctx *core.MessageContext) error {
	return toggleSetting(ctx, "Duplicate prevention",
		func(m *coreMusic) *bool { return &m.PreventDuplicates })
}

type DeleteUserCommandCommand struct{}

func (c *DeleteUserCommandCommand) Name() string { return "deleteusercommand" }
func (c *DeleteUserCommandCommand) Description() string {
	return "Toggle deletion of invoking command messages"
}
func (c *DeleteUserCommandCommand) Aliases() []string { return []string{} }
func (c *DeleteUserCommandCommand) Group() string     { return "settings" }

func (c *DeleteUserCommandCommand) Run(ctx *core.MessageContext) error {
	return toggleSetting(ctx, "Command message deletion",
		func(m *coreMusic) *bool { return &m.DeleteUserCommand })
}
