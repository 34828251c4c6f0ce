package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"teaBot/internal/domain"
	"teaBot/internal/infrastructure/config"
	"teaBot/internal/infrastructure/persistence/sqlite"
	"teaBot/internal/infrastructure/platform/ergast"
	spotifyinfra "teaBot/internal/infrastructure/platform/spotify"
	twitchinfra "teaBot/internal/infrastructure/platform/twitch"
	twitchadapter "teaBot/internal/interface/adapters/twitch"
	"teaBot/internal/interface/outs"
	"teaBot/internal/usecase/afk"
	"teaBot/internal/usecase/commands"
	"teaBot/internal/usecase/handle_message"
	"teaBot/internal/usecase/listen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}

	store, err := sqlite.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatal("opening database", zap.Error(err))
	}
	defer store.Close()

	catalog, err := commands.LoadCatalog()
	if err != nil {
		log.Fatal("loading command catalog", zap.Error(err))
	}

	// ---------- state stores ----------

	afkStore := afk.NewStore(catalog.AfkMessages, cfg.AfkCooldown)

	playback := spotifyinfra.NewAdapter(cfg.SpotifyClientID, cfg.SpotifyClientSecret, store, log)
	listenRegistry := listen.NewRegistry(playback, cfg.APITimeout)

	// ---------- external services ----------

	userLookup, err := twitchinfra.NewUserService(cfg.TwitchClientID, cfg.TwitchAPIToken)
	if err != nil {
		log.Fatal("creating helix user service", zap.Error(err))
	}

	schedule := ergast.NewClient(cfg.OpenWeatherKey)

	// ---------- command registry ----------

	patterns := commands.NewPatternBuilder()
	registry := commands.NewRegistry()

	handlers := map[string]commands.Handler{
		"set":      commands.NewSetCommand(store),
		"unset":    commands.NewUnsetCommand(store, store, patterns),
		"rafk":     commands.NewRafkCommand(afkStore),
		"listen":   commands.NewListenCommand(listenRegistry, store),
		"ping":     commands.NewPingCommand(time.Now()),
		"id":       commands.NewIDCommand(userLookup, cfg.APITimeout),
		"gachi":    commands.NewGachiCommand(catalog.GachiSongs),
		"formula1": commands.NewFormula1Command(schedule, cfg.APITimeout),
	}
	afkCommand := commands.NewAfkCommand(afkStore)

	for _, entry := range catalog.Commands {
		spec, err := entry.Spec()
		if err != nil {
			log.Fatal("bad catalog entry", zap.Error(err))
		}

		handler := handlers[spec.ID]
		if spec.AfkKind != "" {
			handler = afkCommand
		}
		if handler == nil {
			log.Fatal("no handler for command", zap.String("command", spec.ID))
		}
		if err := registry.Register(spec, handler); err != nil {
			log.Fatal("registering command", zap.String("command", spec.ID), zap.Error(err))
		}
	}

	// ---------- transport ----------

	twitchAd := twitchadapter.NewAdapter(twitchadapter.Config{
		Username:             cfg.TwitchUsername,
		OAuthToken:           cfg.TwitchToken,
		Channels:             cfg.TwitchChannels,
		DelayBetweenMessages: 1300 * time.Millisecond,
	}, log)

	multiOut := outs.NewMultiSender()
	multiOut.Register(domain.PlatformTwitch, twitchAd)

	uc := handle_message.NewInteractor(
		registry,
		patterns,
		afkStore,
		store,
		multiOut,
		log,
		cfg.DefaultPrefix,
		cfg.MaxMessageLength,
	)
	twitchAd.SetHandler(uc.Handle)

	log.Info("starting bot")

	go func() {
		if err := twitchAd.Start(ctx); err != nil && err != context.Canceled {
			log.Error("twitch adapter stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	log.Info("bot shut down")
}
