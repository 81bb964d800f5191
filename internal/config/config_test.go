package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TOKEN", "tok")
	t.Setenv("WEBHOOK_URL", "https://discord.com/api/webhooks/1/x")
	t.Setenv("CHANNEL_ID", "123")
	t.Setenv("GUILD_ID", "456")
	t.Setenv("MC_GATEWAY_URL", "ws://localhost:9000/chat")
	t.Setenv("MC_USERNAMES", "BridgeBot")
	t.Setenv("API_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotPrefix != "!" {
		t.Fatalf("BotPrefix = %q, want !", cfg.BotPrefix)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Fatalf("CacheTTL = %v, want 30m", cfg.CacheTTL)
	}
	if cfg.CheckMinNetworth != 9_000_000_000 {
		t.Fatalf("CheckMinNetworth = %v", cfg.CheckMinNetworth)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when API_KEY is unset")
	}
}

func TestLoadUsernameList(t *testing.T) {
	setRequired(t)
	t.Setenv("MC_USERNAMES", " BotOne , BotTwo ,")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Usernames) != 2 || cfg.Usernames[0] != "BotOne" || cfg.Usernames[1] != "BotTwo" {
		t.Fatalf("Usernames = %v", cfg.Usernames)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_PREFIX", "?")
	t.Setenv("CACHE_TTL", "5m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotPrefix != "?" || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("overrides not applied: prefix=%q ttl=%v", cfg.BotPrefix, cfg.CacheTTL)
	}
}
