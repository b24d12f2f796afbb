package cmd

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/chebot/internal/config"
	"github.com/abhisek/chebot/internal/content"
	"github.com/abhisek/chebot/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "chebot",
	Short: "Argentine Spanish lessons for a Telegram channel",
	Long: `chebot posts one piece of Argentine Spanish content per run.

The hour of the run (America/Argentina/Buenos_Aires) decides what is posted:
a vocabulary card, an everyday phrase, a grammar note, or the evening
daily-check polls. Run it hourly from cron or a CI schedule.`,
	SilenceUsage: true,
	RunE:         runBot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("content", "", "Path to content file (overrides CHEBOT_CONTENT)")
	rootCmd.PersistentFlags().String("state", "", "Path to state file (overrides CHEBOT_STATE)")
	rootCmd.PersistentFlags().String("card", "", "Path to write the card image (overrides CHEBOT_CARD)")

	rootCmd.Flags().Bool("dry-run", false, "Render and print posts without sending or saving state")
	rootCmd.Flags().String("at", "", "Run as if the current time were this RFC3339 timestamp")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, then applies path flags.
func loadConfig(cmd *cobra.Command) config.Config {
	// A missing .env is normal in CI.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	if p, _ := cmd.Flags().GetString("content"); p != "" {
		cfg.ContentPath = p
	}
	if p, _ := cmd.Flags().GetString("state"); p != "" {
		cfg.StatePath = p
	}
	if p, _ := cmd.Flags().GetString("card"); p != "" {
		cfg.CardPath = p
	}
	return cfg
}

func newLogger(cfg config.Config) (*logging.Logger, error) {
	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}

func loadContent(cfg config.Config) (*content.Store, error) {
	store, err := content.Load(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return store, nil
}

// clock returns time.Now, or a fixed time when --at is set.
func clock(cmd *cobra.Command) (func() time.Time, error) {
	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		return time.Now, nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("invalid --at %q: %w", at, err)
	}
	return func() time.Time { return t }, nil
}
