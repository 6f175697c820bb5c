package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
	OpsAddr  string `envconfig:"OPS_ADDR" default:"localhost:3100"`
}

type TelegramEnv struct {
	Token       string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	PollTimeout int    `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"30"`
}

type DeepSeekEnv struct {
	APIKey  string `envconfig:"DEEPSEEK_API_KEY" required:"true"`
	BaseURL string `envconfig:"DEEPSEEK_BASE_URL" default:"https://api.deepseek.com"`
	Model   string `envconfig:"DEEPSEEK_MODEL" default:"deepseek-chat"`
}

type Env struct {
	BaseEnv
	TelegramEnv
	DeepSeekEnv
}

const namespace = "TASKPILOT"

// LoadEnv reads configuration from TASKPILOT_* environment variables.
// Missing secrets (bot token, API key) fail here, before anything starts.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}
