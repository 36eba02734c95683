// Package info holds the informational commands.
package info

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/config"
	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/version"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{"h"} }
func (c *HelpCommand) Group() string       { return "info" }

func (c *HelpCommand) Run(ctx *core.MessageContext) error {
	groups := map[string][]core.Command{}
	for _, cmd := range core.AllCommands() {
		groups[cmd.Group()] = append(groups[cmd.Group()], cmd)
	}

	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Slice(names, func(i, j int) bool {
		wi, wj := config.GroupWeights[names[i]], config.GroupWeights[names[j]]
		if wi != wj {
			return wi < wj
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	for _, g := range names {
		cmds := groups[g]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
		fmt.Fprintf(&b, "**%s**\n", g)
		for _, cmd := range cmds {
			fmt.Fprintf(&b, "`%s` - %s\n", cmd.Name(), cmd.Description())
		}
		b.WriteString("\n")
	}

	_, err := ctx.Messenger.SendEmbed(ctx.Event.ChannelID, &discordgo.MessageEmbed{
		Title:       ctx.Config.Symbols.Page + " " + version.AppName + " commands",
		Description: b.String(),
		Color:       core.EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: version.AppName + " " + version.AppVersion},
	})
	return err
}
