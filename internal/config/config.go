package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// Symbols are the emoji the bot uses for reactions and replies.
// They are configurable so guilds with custom emoji can override them.
type Symbols struct {
	CheckMark string `env:"CHECK" envDefault:"✅"`
	CrossMark string `env:"CROSS" envDefault:"❌"`
	Play      string `env:"PLAY" envDefault:"▶️"`
	Pause     string `env:"PAUSE" envDefault:"⏸"`
	Stop      string `env:"STOP" envDefault:"⏹"`
	Notes     string `env:"NOTES" envDefault:"🎶"`
	Loading   string `env:"LOADING" envDefault:"⏳"`
	Page      string `env:"PAGE" envDefault:"📄"`
	Memo      string `env:"MEMO" envDefault:"📝"`
}

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// DatabasePath is the sqlite file holding per-guild settings.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"aquabot.db"`
	// HistoryPath is the JSON datastore holding command history.
	HistoryPath string `env:"HISTORY_PATH" envDefault:"history.json"`

	DefaultPrefix string `env:"DEFAULT_PREFIX" envDefault:"a!"`

	// SkipVoteWindow is how long a skip vote stays open without new votes.
	SkipVoteWindow time.Duration `env:"SKIP_VOTE_WINDOW" envDefault:"30s"`
	// ConfirmTimeout is the default confirmation dialog timeout.
	ConfirmTimeout time.Duration `env:"CONFIRM_TIMEOUT" envDefault:"30s"`
	// NowPlayingTick is how often the now-playing message refreshes its position.
	NowPlayingTick time.Duration `env:"NOW_PLAYING_TICK" envDefault:"5s"`

	Symbols Symbols `envPrefix:"SYMBOL_"`
}

// New parses the process environment into a Config.
func New() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
