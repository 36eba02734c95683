// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/illyaz/aquabot/internal/commands"
	"github.com/illyaz/aquabot/internal/config"
	"github.com/illyaz/aquabot/internal/discord"
	"github.com/illyaz/aquabot/internal/guildconfig"
	"github.com/illyaz/aquabot/internal/storage"
	v "github.com/illyaz/aquabot/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	configStore, err := guildconfig.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	configs := guildconfig.NewCache(configStore)

	store, err := storage.New(ctx, cfg.HistoryPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	commands.Register()

	bot := discord.NewBot(cfg, configs, store)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
