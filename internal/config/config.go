package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Discord side
	Token      string
	WebhookURL string
	ChannelID  string
	GuildID    string

	// Game side: one gateway connection per bot username
	GatewayURL string
	Usernames  []string

	// Upstream stats API
	APIKey string

	BotPrefix string
	RedisURL  string
	CacheTTL  time.Duration

	MessagesDir string

	// Requirement gate for the check command
	CheckMinLevel     float64
	CheckMinCatacombs float64
	CheckMinNetworth  float64
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		BotPrefix:         "!",
		CacheTTL:          30 * time.Minute,
		CheckMinLevel:     250,
		CheckMinCatacombs: 44,
		CheckMinNetworth:  9_000_000_000,
	}

	cfg.Token = strings.TrimSpace(os.Getenv("TOKEN"))
	cfg.WebhookURL = strings.TrimSpace(os.Getenv("WEBHOOK_URL"))
	cfg.ChannelID = strings.TrimSpace(os.Getenv("CHANNEL_ID"))
	cfg.GuildID = strings.TrimSpace(os.Getenv("GUILD_ID"))

	cfg.GatewayURL = strings.TrimSpace(os.Getenv("MC_GATEWAY_URL"))
	if v := strings.TrimSpace(os.Getenv("MC_USERNAMES")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.Usernames = append(cfg.Usernames, s)
			}
		}
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if v := strings.TrimSpace(os.Getenv("BOT_PREFIX")); v != "" {
		cfg.BotPrefix = v
	}
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}

	if v := strings.TrimSpace(os.Getenv("CHECK_MIN_LEVEL")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.CheckMinLevel = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHECK_MIN_CATA")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.CheckMinCatacombs = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHECK_MIN_NETWORTH")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.CheckMinNetworth = f
		}
	}

	if cfg.Token == "" {
		return nil, errors.New("TOKEN is required")
	}
	if cfg.WebhookURL == "" {
		return nil, errors.New("WEBHOOK_URL is required")
	}
	if cfg.ChannelID == "" {
		return nil, errors.New("CHANNEL_ID is required")
	}
	if cfg.GuildID == "" {
		return nil, errors.New("GUILD_ID is required")
	}
	if cfg.GatewayURL == "" {
		return nil, errors.New("MC_GATEWAY_URL is required")
	}
	if len(cfg.Usernames) == 0 {
		return nil, errors.New("MC_USERNAMES is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("API_KEY is required")
	}

	return cfg, nil
}
