package core

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

// ApplyMiddlewares wraps cmd so the first middleware listed runs first.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		cmd = mws[i](cmd)
	}
	return cmd
}

// WithAdminOnly restricts a command to members who can manage the
// server.
func WithAdminOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				perms, err := ctx.Session.State.UserChannelPermissions(ctx.Event.Author.ID, ctx.Event.ChannelID)
				if err != nil || perms&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) == 0 {
					return ctx.Messenger.Reply(ctx.Event.ChannelID, "You need Manage Server permission for that.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				if ctx.Event.GuildID == "" {
					return ctx.Messenger.Reply(ctx.Event.ChannelID, "This command only works in a server.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithDJCheck gates a command behind the guild's DJ role when one is
// configured. Admins always pass.
func WithDJCheck() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				cfg, err := ctx.GuildConfig()
				if err != nil {
					log.Printf("[WARN] Failed to load guild config for DJ check: %v", err)
					return cmd.Run(ctx)
				}
				roleID := cfg.Music.DJRoleID
				if roleID == "" {
					return cmd.Run(ctx)
				}

				member := ctx.Event.Member
				if member == nil {
					return cmd.Run(ctx)
				}
				for _, r := range member.Roles {
					if r == roleID {
						return cmd.Run(ctx)
					}
				}
				perms, err := ctx.Session.State.UserChannelPermissions(ctx.Event.Author.ID, ctx.Event.ChannelID)
				if err == nil && perms&discordgo.PermissionAdministrator != 0 {
					return cmd.Run(ctx)
				}

				return ctx.Messenger.Reply(ctx.Event.ChannelID, "You need the DJ role to use this command.")
			},
		}
	}
}

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				err := cmd.Run(ctx)

				if ctx.Storage != nil {
					user := ctx.Event.Author
					if e := LogCommand(ctx.Session, ctx, user.ID, user.Username, cmd.Name()); e != nil {
						log.Printf("[WARN] Failed to log command %s: %v", cmd.Name(), e)
					}
				}
				return err
			},
		}
	}
}

// WithDeleteUserCommand removes the invoking message afterwards when
// the guild opted in and the bot can manage messages.
func WithDeleteUserCommand() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				err := cmd.Run(ctx)

				cfg, cfgErr := ctx.GuildConfig()
				if cfgErr != nil || !cfg.Music.DeleteUserCommand {
					return err
				}
				if !ctx.Messenger.HasChannelPermission(ctx.Event.ChannelID, discordgo.PermissionManageMessages) {
					return err
				}
				if e := ctx.Messenger.DeleteMessage(ctx.Event.ChannelID, ctx.Event.ID); e != nil {
					log.Printf("[WARN] Failed to delete command message: %v", e)
				}
				return err
			},
		}
	}
}
