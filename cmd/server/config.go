package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quizwire/server/internal/models"
	"github.com/quizwire/server/internal/registry"
)

// Config is the full server configuration: env vars for deployment
// concerns, an optional YAML file for game defaults.
type Config struct {
	Port     string
	LogLevel string

	NATSURL string

	ProviderAPIKey  string
	ProviderModel   string
	ProviderBaseURL string
	ProviderReferer string

	Game GameConfig
}

// GameConfig holds tunable game defaults, loadable from YAML.
type GameConfig struct {
	ResponseWindowMs  int  `yaml:"response_window_ms"`
	JudgingWindowMs   int  `yaml:"judging_window_ms"`
	PenaltyEnabled    bool `yaml:"penalty_enabled"`
	ReopenOnIncorrect bool `yaml:"reopen_on_incorrect"`
	MaxPlayers        int  `yaml:"max_players"`
	RoomExpiryMinutes int  `yaml:"room_expiry_minutes"`
	SweepIntervalSecs int  `yaml:"sweep_interval_seconds"`
}

func defaultGameConfig() GameConfig {
	return GameConfig{
		ResponseWindowMs:  8000,
		JudgingWindowMs:   15000,
		PenaltyEnabled:    true,
		ReopenOnIncorrect: true,
		MaxPlayers:        12,
		RoomExpiryMinutes: 120,
		SweepIntervalSecs: 60,
	}
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		NATSURL:         os.Getenv("NATS_URL"),
		ProviderAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		ProviderModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		ProviderBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		ProviderReferer: os.Getenv("OPENROUTER_REFERER"),
		Game:            defaultGameConfig(),
	}

	if path := os.Getenv("GAME_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg.Game); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Env overrides win over the YAML file.
	cfg.Game.ResponseWindowMs = getEnvAsInt("RESPONSE_WINDOW_MS", cfg.Game.ResponseWindowMs)
	cfg.Game.JudgingWindowMs = getEnvAsInt("JUDGING_WINDOW_MS", cfg.Game.JudgingWindowMs)
	cfg.Game.MaxPlayers = getEnvAsInt("MAX_PLAYERS", cfg.Game.MaxPlayers)
	cfg.Game.RoomExpiryMinutes = getEnvAsInt("ROOM_EXPIRY_MINUTES", cfg.Game.RoomExpiryMinutes)
	cfg.Game.SweepIntervalSecs = getEnvAsInt("SWEEP_INTERVAL_SECONDS", cfg.Game.SweepIntervalSecs)

	return cfg, nil
}

// settings converts the game config into per-room default settings.
func (c *Config) settings() models.GameSettings {
	return models.GameSettings{
		ResponseWindow:    time.Duration(c.Game.ResponseWindowMs) * time.Millisecond,
		JudgingWindow:     time.Duration(c.Game.JudgingWindowMs) * time.Millisecond,
		PenaltyEnabled:    c.Game.PenaltyEnabled,
		ReopenOnIncorrect: c.Game.ReopenOnIncorrect,
	}
}

func (c *Config) registryConfig() registry.Config {
	return registry.Config{
		MaxPlayers: c.Game.MaxPlayers,
		RoomExpiry: time.Duration(c.Game.RoomExpiryMinutes) * time.Minute,
	}
}

func (c *Config) sweepInterval() time.Duration {
	return time.Duration(c.Game.SweepIntervalSecs) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
