package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	TwitchUsername string   `env:"TWITCH_BOT_USERNAME"`
	TwitchToken    string   `env:"TWITCH_BOT_ACCESS_TOKEN"`
	TwitchChannels []string `env:"TWITCH_BOT_CHANNELS" envSeparator:","`
	TwitchClientID string   `env:"TWITCH_CLIENT_ID"`
	TwitchAPIToken string   `env:"TWITCH_API_ACCESS_TOKEN"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	OpenWeatherKey string `env:"OPENWEATHER_API_KEY"`

	DBPath           string        `env:"BOT_DB_PATH" envDefault:"data/bot.db"`
	DefaultPrefix    string        `env:"BOT_DEFAULT_PREFIX" envDefault:"!"`
	MaxMessageLength int           `env:"BOT_MAX_MESSAGE_LENGTH" envDefault:"500"`
	AfkCooldown      time.Duration `env:"BOT_AFK_COOLDOWN" envDefault:"10s"`
	APITimeout       time.Duration `env:"BOT_API_TIMEOUT" envDefault:"3s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.TwitchUsername == "" || cfg.TwitchToken == "" {
		return nil, fmt.Errorf("config: TWITCH_BOT_USERNAME and TWITCH_BOT_ACCESS_TOKEN are required")
	}
	if len(cfg.TwitchChannels) == 0 {
		return nil, fmt.Errorf("config: TWITCH_BOT_CHANNELS is required")
	}

	return cfg, nil
}
