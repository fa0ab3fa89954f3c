package boot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const MessagesFileName = "messages.json"

type NotifierConfig struct {
	BotToken string        `env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string        `env:"TELEGRAM_CHAT_ID"`
	BaseURL  string        `env:"TELEGRAM_API_URL,default=https://api.telegram.org"`
	Timeout  time.Duration `env:"NOTIFIER_TIMEOUT,default=10s"`
}

// Enabled reports whether both the bot token and the chat destination are set.
func (n NotifierConfig) Enabled() bool {
	return n.BotToken != "" && n.ChatID != ""
}

type Config struct {
	Env       string `env:"ENV,default=dev"`
	DataDir   string `env:"DATA_DIR,default=data"`
	PublicDir string `env:"PUBLIC_DIR,default=public"`
	Server    struct {
		Port           string `env:"PORT,default=3000"`
		Origins        string `env:"ALLOWED_ORIGINS,default=*"`
		BodyLimit      string `env:"BODY_LIMIT,default=100K"`
		MetricsPort    string `env:"METRICS_PORT,default=8081"`
		MetricsEnabled bool   `env:"METRICS_ENABLED,default=true"`
	}
	Notifier NotifierConfig
}

// Load reads an optional .env file from the working directory and then
// processes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *Config) MessagesFile() string {
	return filepath.Join(c.DataDir, MessagesFileName)
}

func (c *Config) AllowedOrigins() []string {
	origins := []string{}
	for _, origin := range strings.Split(c.Server.Origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
