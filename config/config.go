// Package config loads client settings from defaults, an optional YAML file
// and CARDGAME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CARDGAME"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Player  PlayerConfig  `mapstructure:"player"`
	Session SessionConfig `mapstructure:"session"`
	Lobby   LobbyConfig   `mapstructure:"lobby"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	URL string `mapstructure:"url"`
}

type PlayerConfig struct {
	// UID is generated and persisted when empty.
	UID    string `mapstructure:"uid"`
	DeckID int    `mapstructure:"deck_id"`
}

type SessionConfig struct {
	File string `mapstructure:"file"`
}

type LobbyConfig struct {
	// RefreshInterval of zero disables lobby polling.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type ChatConfig struct {
	MaxLength int `mapstructure:"max_length"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "ws://localhost:8080/ws")
	v.SetDefault("player.uid", "")
	v.SetDefault("player.deck_id", 0)
	v.SetDefault("session.file", ".cardgame-session.yaml")
	v.SetDefault("lobby.refresh_interval", 10*time.Second)
	v.SetDefault("chat.max_length", 500)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads path when it exists. An empty path or a missing file leaves the
// defaults and environment in effect.
func Load(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.URL, "ws://") && !strings.HasPrefix(c.Server.URL, "wss://") {
		return fmt.Errorf("server.url must start with ws:// or wss://, got %q", c.Server.URL)
	}
	if c.Chat.MaxLength <= 0 {
		return fmt.Errorf("chat.max_length must be positive, got %d", c.Chat.MaxLength)
	}
	if c.Lobby.RefreshInterval < 0 {
		return fmt.Errorf("lobby.refresh_interval must not be negative, got %s", c.Lobby.RefreshInterval)
	}
	if c.Player.DeckID < 0 {
		return fmt.Errorf("player.deck_id must not be negative, got %d", c.Player.DeckID)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
