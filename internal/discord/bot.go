// Package discord runs the bot: it opens the gateway session, feeds
// reaction and message events into the gate, and dispatches prefix
// commands.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/illyaz/aquabot/internal/config"
	"github.com/illyaz/aquabot/internal/core"
	"github.com/illyaz/aquabot/internal/gate"
	"github.com/illyaz/aquabot/internal/guildconfig"
	"github.com/illyaz/aquabot/internal/music/player"
	"github.com/illyaz/aquabot/internal/music/resolver"
	"github.com/illyaz/aquabot/internal/music/session"
	"github.com/illyaz/aquabot/internal/storage"
)

// Bot is the running Discord bot
type Bot struct {
	dg        *discordgo.Session
	cfg       *config.Config
	configs   *guildconfig.Cache
	storage   *storage.Storage
	sessions  *session.Registry
	resolver  *resolver.Resolver
	gate      *gate.Gate
	messenger *core.Messenger
}

func NewBot(cfg *config.Config, configs *guildconfig.Cache, store *storage.Storage) *Bot {
	return &Bot{
		cfg:      cfg,
		configs:  configs,
		storage:  store,
		sessions: session.NewRegistry(cfg.NowPlayingTick),
		resolver: resolver.New(),
		gate:     gate.New(),
	}
}

// Run opens the gateway session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.messenger = core.NewMessenger(dg)

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onMessageDelete)
	dg.AddHandler(b.onReactionAdd)
	dg.AddHandler(b.onReactionRemove)
	dg.AddHandler(b.onReactionRemoveAll)
	dg.AddHandler(b.onVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	b.sessions.CloseAll()
	return nil
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[DONE] Logged in as %s, serving %d guilds", r.User.Username, len(r.Guilds))
}

// onMessageCreate feeds channel activity to the gate and dispatches
// prefix commands. The gate sees every message, the bot's own included,
// so a buried now playing display can retire itself.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.gate.MessageCreated(m.ChannelID, m.ID)

	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix := b.guildPrefix(m.GuildID)
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	cmd, ok := core.GetCommand(name)
	if !ok {
		return
	}

	ctx := &core.MessageContext{
		Session:   s,
		Event:     m,
		Args:      fields[1:],
		Config:    b.cfg,
		Configs:   b.configs,
		Storage:   b.storage,
		Sessions:  b.sessions,
		Messenger: b.messenger,
		Resolver:  b.resolver,
		Gate:      b.gate,
		NewPlayer: b.newPlayer,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Command %s failed: %v", cmd.Name(), err)
		if e := b.messenger.Reply(m.ChannelID, b.cfg.Symbols.CrossMark+" Something went wrong, try again."); e != nil {
			log.Printf("[WARN] Failed to report command error: %v", e)
		}
	}
}

func (b *Bot) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	b.gate.MessageDeleted(m.ID)
}

func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.gate.ReactionAdded(gate.Reaction{
		MessageID: r.MessageID,
		ChannelID: r.ChannelID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
	})
}

func (b *Bot) onReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	b.gate.ReactionRemoved(gate.Reaction{
		MessageID: r.MessageID,
		ChannelID: r.ChannelID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
	})
}

func (b *Bot) onReactionRemoveAll(s *discordgo.Session, r *discordgo.MessageReactionRemoveAll) {
	b.gate.ReactionsCleared(r.MessageID)
}

// onVoiceStateUpdate tears the session down when the bot is removed
// from its voice channel.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if s.State.User == nil || v.UserID != s.State.User.ID {
		return
	}
	if v.ChannelID != "" {
		return
	}
	if _, ok := b.sessions.Get(v.GuildID); ok {
		log.Printf("[INFO] Disconnected from voice in guild %s, closing session", v.GuildID)
		b.sessions.Remove(v.GuildID)
	}
}

// guildPrefix returns the guild's configured prefix, falling back to
// the global default.
func (b *Bot) guildPrefix(guildID string) string {
	if guildID == "" {
		return b.cfg.DefaultPrefix
	}
	cfg, err := b.configs.Get(guildID)
	if err != nil {
		log.Printf("[WARN] Failed to load config for guild %s: %v", guildID, err)
		return b.cfg.DefaultPrefix
	}
	if cfg.Prefix != "" {
		return cfg.Prefix
	}
	return b.cfg.DefaultPrefix
}

// newPlayer builds a guild player streaming into this bot's voice
// connection, seeded with the guild's default volume.
func (b *Bot) newPlayer(guildID string) *player.Player {
	sink := newVoiceSink(b.dg, guildID)
	p := player.New(guildID, sink)

	if cfg, err := b.configs.Get(guildID); err == nil {
		p.SetVolume(cfg.Music.DefaultVolume)
	}
	return p
}
