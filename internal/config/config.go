package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/chebot/internal/archive"
	"github.com/abhisek/chebot/internal/telegram"
)

// Config holds everything a run needs from the environment.
type Config struct {
	// ContentPath is the content file (JSON, or YAML by extension).
	ContentPath string
	// StatePath is the JSON state file.
	StatePath string
	// CardPath is where the rendered card is written each run.
	CardPath string
	// FontPath is the preferred TrueType font. Empty searches the usual
	// system font directories for DejaVuSans.ttf.
	FontPath string
	// LogMode is "dev" or "prod".
	LogMode string

	Telegram telegram.Config
	// Archive is optional; an empty bucket disables it.
	Archive archive.Config
}

// DefaultConfig returns a Config with paths relative to the working directory.
func DefaultConfig() Config {
	return Config{
		ContentPath: "content.json",
		StatePath:   "state.json",
		CardPath:    "card.png",
		LogMode:     "dev",
		Telegram: telegram.Config{
			BaseURL: telegram.DefaultBaseURL,
			Timeout: telegram.DefaultTimeout,
		},
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() Config {
	cfg := DefaultConfig()

	cfg.Telegram.Token = strings.TrimSpace(os.Getenv("TG_BOT_TOKEN"))
	cfg.Telegram.ChatID = strings.TrimSpace(os.Getenv("TG_CHAT_ID"))
	if u := os.Getenv("CHEBOT_TELEGRAM_BASE_URL"); u != "" {
		cfg.Telegram.BaseURL = u
	}

	if p := os.Getenv("CHEBOT_CONTENT"); p != "" {
		cfg.ContentPath = p
	}
	if p := os.Getenv("CHEBOT_STATE"); p != "" {
		cfg.StatePath = p
	}
	if p := os.Getenv("CHEBOT_CARD"); p != "" {
		cfg.CardPath = p
	}
	if p := os.Getenv("CHEBOT_FONT"); p != "" {
		cfg.FontPath = p
	}
	if m := os.Getenv("CHEBOT_LOG_MODE"); m != "" {
		cfg.LogMode = m
	}

	cfg.Archive = archive.Config{
		Bucket:       strings.TrimSpace(os.Getenv("CHEBOT_S3_BUCKET")),
		Prefix:       normalizePrefix(os.Getenv("CHEBOT_S3_PREFIX")),
		Region:       strings.TrimSpace(os.Getenv("CHEBOT_S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("CHEBOT_S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("CHEBOT_S3_USE_PATH_STYLE")), "true"),
	}

	return cfg
}

// Validate checks that the destination chat is fully configured.
func (c Config) Validate() error {
	if err := c.ValidatePaths(); err != nil {
		return err
	}
	if err := c.Telegram.Validate(); err != nil {
		return err
	}
	if c.Telegram.BaseURL == "" {
		return fmt.Errorf("telegram base URL is empty")
	}
	return nil
}

// ValidatePaths checks only the file locations, for commands that never
// talk to Telegram.
func (c Config) ValidatePaths() error {
	if c.ContentPath == "" || c.StatePath == "" || c.CardPath == "" {
		return fmt.Errorf("content, state and card paths must be set")
	}
	return nil
}

func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}
