package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ChickenIQ/GuildLink/internal/bridge"
	"github.com/ChickenIQ/GuildLink/internal/cache"
	"github.com/ChickenIQ/GuildLink/internal/command"
	appcfg "github.com/ChickenIQ/GuildLink/internal/config"
	"github.com/ChickenIQ/GuildLink/internal/discord"
	"github.com/ChickenIQ/GuildLink/internal/hypixel"
	"github.com/ChickenIQ/GuildLink/internal/mcgateway"
	"github.com/ChickenIQ/GuildLink/internal/mojang"
	"github.com/ChickenIQ/GuildLink/internal/msgcat"
	"github.com/ChickenIQ/GuildLink/internal/networth"
	"github.com/ChickenIQ/GuildLink/internal/obslog"
)

func main() {
	_ = godotenv.Load()

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	store, closeStore := buildStore(cfg, logger)
	defer closeStore()

	stats := hypixel.NewGateway(
		hypixel.NewClient(cfg.APIKey, store, hypixel.WithTTL(cfg.CacheTTL)),
		networth.New(),
		logger.Named("hypixel"),
	)
	identity := mojang.NewResolver(store, mojang.WithTTL(cfg.CacheTTL))

	messages, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("message catalog error", zap.Error(err))
	}

	router := command.NewRouter(cfg.BotPrefix, logger.Named("command"))
	if err := command.RegisterStats(router, command.Deps{
		Stats:             stats,
		Identity:          identity,
		Messages:          messages,
		CheckMinLevel:     cfg.CheckMinLevel,
		CheckMinCatacombs: cfg.CheckMinCatacombs,
		CheckMinNetworth:  cfg.CheckMinNetworth,
	}); err != nil {
		logger.Fatal("command registration error", zap.Error(err))
	}

	bot, err := discord.New(discord.Config{
		Token:      cfg.Token,
		GuildID:    cfg.GuildID,
		ChannelID:  cfg.ChannelID,
		WebhookURL: cfg.WebhookURL,
	}, logger.Named("discord"))
	if err != nil {
		logger.Fatal("discord init error", zap.Error(err))
	}

	relay := bridge.New(router, bot, logger.Named("bridge"))
	bot.OnMessage(func(msg bridge.PlatformMessage) {
		relay.HandlePlatformMessage(context.Background(), msg)
	})

	if err := bot.Start(); err != nil {
		logger.Fatal("discord connect error", zap.Error(err))
	}
	defer func() { _ = bot.Close() }()

	// One gateway socket per bot account. A connection that cannot be kept
	// alive takes the whole process down; the supervisor restarts it with a
	// clean slate.
	conns := make([]*mcgateway.Conn, 0, len(cfg.Usernames))
	for _, username := range cfg.Usernames {
		conn := mcgateway.NewConn(cfg.GatewayURL, username, 0, logger.Named("mcgateway"))
		conn.OnLine(func(line string) {
			go relay.HandleGameLine(context.Background(), conn, line)
		})
		conn.OnStateChange(func(state mcgateway.State) {
			logger.Info("gateway state", zap.String("username", conn.Username()), zap.Stringer("state", state))
			if state == mcgateway.StateFailed {
				logger.Error("gateway connection lost", zap.String("username", conn.Username()))
				os.Exit(1)
			}
		})

		cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := conn.Connect(cctx)
		cancel()
		if err != nil {
			logger.Fatal("gateway connect error", zap.String("username", username), zap.Error(err))
		}

		relay.AttachGame(conn)
		conns = append(conns, conn)
	}

	logger.Info("guildlink running",
		zap.Int("game_connections", len(conns)),
		zap.String("channel", cfg.ChannelID))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	for _, conn := range conns {
		_ = conn.Close(context.Background())
	}
}

// buildStore picks the shared response cache: Redis when configured,
// otherwise in-process memory.
func buildStore(cfg *appcfg.AppConfig, logger *zap.Logger) (cache.Store, func()) {
	if cfg.RedisURL == "" {
		return cache.NewMemory(), func() {}
	}
	rdb, err := cache.NewRedisFromURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis init error", zap.Error(err))
	}
	return rdb, func() { _ = rdb.Close() }
}
