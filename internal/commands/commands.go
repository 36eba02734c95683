// Package commands registers every prefix command with its middleware
// chain.
package commands

import (
	"github.com/illyaz/aquabot/internal/commands/info"
	"github.com/illyaz/aquabot/internal/commands/music"
	"github.com/illyaz/aquabot/internal/commands/settings"
	"github.com/illyaz/aquabot/internal/core"
)

// Register wires up all commands. Call once at startup.
func Register() {
	standard := []core.Middleware{
		core.WithGuildOnly(),
		core.WithCommandLogger(),
		core.WithDeleteUserCommand(),
	}
	dj := append([]core.Middleware{}, standard...)
	dj = append(dj, core.WithDJCheck())
	admin := []core.Middleware{
		core.WithGuildOnly(),
		core.WithAdminOnly(),
		core.WithCommandLogger(),
	}

	for _, cmd := range []core.Command{
		&music.PlayCommand{},
		&music.PlayNextCommand{},
		&music.SkipCommand{},
		&music.PauseCommand{},
		&music.ResumeCommand{},
		&music.LoopCommand{},
		&music.QueueCommand{},
		&music.VolumeCommand{},
		&music.SeekCommand{},
		&music.NowPlayingCommand{},
	} {
		core.RegisterCommand(core.ApplyMiddlewares(cmd, standard...))
	}

	for _, cmd := range []core.Command{
		&music.ForceSkipCommand{},
		&music.StopCommand{},
		&music.ClearCommand{},
	} {
		core.RegisterCommand(core.ApplyMiddlewares(cmd, dj...))
	}

	for _, cmd := range []core.Command{
		&settings.PrefixCommand{},
		&settings.DJCommand{},
		&settings.DefaultVolumeCommand{},
		&settings.PreventDuplicatesCommand{},
		&settings.DeleteUserCommandCommand{},
	} {
		core.RegisterCommand(core.ApplyMiddlewares(cmd, admin...))
	}

	core.RegisterCommand(&info.HelpCommand{})
	core.RegisterCommand(core.ApplyMiddlewares(&info.HistoryCommand{},
		core.WithGuildOnly(), core.WithCommandLogger()))
}
