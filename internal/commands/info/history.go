package info

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/core"
)

type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recent command activity" }
func (c *HistoryCommand) Aliases() []string   { return []string{} }
func (c *HistoryCommand) Group() string       { return "info" }

func (c *HistoryCommand) Run(ctx *core.MessageContext) error {
	records, err := ctx.Storage.FetchCommandHistory(ctx.Event.GuildID)
	if err != nil {
		return fmt.Errorf("history fetch failed: %w", err)
	}
	if len(records) == 0 {
		return ctx.Messenger.Reply(ctx.Event.ChannelID, "No command history yet.")
	}

	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Fprintf(&b, "`%s` **%s** by %s in #%s\n",
			r.Datetime.Format("02 Jan 15:04"), r.Command, r.Username, r.ChannelName)
	}

	_, err = ctx.Messenger.SendEmbed(ctx.Event.ChannelID, &discordgo.MessageEmbed{
		Title:       ctx.Config.Symbols.Memo + " Command history",
		Description: b.String(),
		Color:       core.EmbedColor,
	})
	return err
}
