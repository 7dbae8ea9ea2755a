package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/EgorLis/kstracker/internal/bot"
	"github.com/EgorLis/kstracker/internal/config"
	"github.com/EgorLis/kstracker/internal/discord"
	"github.com/EgorLis/kstracker/internal/state"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if err != nil {
		log.Fatal(err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("log level %q: %v", cfg.LogLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := state.Open(cfg.StateBackend, cfg.StatePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// без MESSAGE_CONTENT gateway присылает команды с пустым текстом
	intents := discord.IntentGuilds | discord.IntentGuildMessages | discord.IntentMessageContent

	b := bot.New(cfg, discord.NewClient(cfg.Token, cfg.APIURL), store, logger)
	b.SetGateway(discord.NewGateway(cfg.Token, cfg.GatewayURL, intents, logger))
	b.LoadState(ctx)

	if err := b.Start(); err != nil {
		logger.Error("start", "err", err)
		return
	}
	defer b.Stop()

	logger.Info("running… press Ctrl+C to stop",
		"guild", cfg.GuildID, "state", cfg.StateBackend+":"+cfg.StatePath)

	<-ctx.Done()
}
