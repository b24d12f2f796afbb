package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/chebot/internal/archive"
	"github.com/abhisek/chebot/internal/bot"
	"github.com/abhisek/chebot/internal/card"
	"github.com/abhisek/chebot/internal/config"
	"github.com/abhisek/chebot/internal/logging"
	"github.com/abhisek/chebot/internal/state"
	"github.com/abhisek/chebot/internal/telegram"
)

// runBot builds dependencies and performs one posting pass.
func runBot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		if err := cfg.ValidatePaths(); err != nil {
			return err
		}
	} else if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	now, err := clock(cmd)
	if err != nil {
		return err
	}

	store, err := loadContent(cfg)
	if err != nil {
		return err
	}

	fonts := card.FontResolver{Path: cfg.FontPath}.Resolve()
	if fonts.Tier == card.TierFallback {
		log.Warn("preferred font unavailable, using fallback", "reason", fonts.FallbackReason)
	} else {
		log.Debug("font loaded", "source", fonts.Source)
	}

	opts := bot.Options{
		Content:  store,
		Renderer: card.NewRenderer(fonts),
		CardPath: cfg.CardPath,
		Now:      now,
		Logger:   log,
	}

	var mock *telegram.MockSender
	fileRepo := state.NewFileRepository(cfg.StatePath)
	if dryRun {
		st, err := fileRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		mock = telegram.NewMockSender()
		opts.Sender = telegram.WithLogging(mock, log)
		opts.State = state.NewMemoryRepository(*st)
	} else {
		client, err := telegram.NewClient(cfg.Telegram)
		if err != nil {
			return err
		}
		opts.Sender = telegram.WithLogging(client, log)
		opts.State = fileRepo
		opts.Archiver, err = newArchiver(cmd, cfg, log)
		if err != nil {
			return err
		}
	}

	b, err := bot.New(opts)
	if err != nil {
		return err
	}
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}

	if mock != nil {
		printDryRun(cmd, mock)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.String())
	return nil
}

// newArchiver returns an S3 archiver when a bucket is configured. A broken
// AWS setup disables archiving rather than failing the post.
func newArchiver(cmd *cobra.Command, cfg config.Config, log *logging.Logger) (archive.Archiver, error) {
	if !cfg.Archive.Enabled() {
		return archive.Nop{}, nil
	}
	a, err := archive.NewS3(cmd.Context(), cfg.Archive)
	if err != nil {
		log.Warn("card archive disabled", "bucket", cfg.Archive.Bucket, "error", err)
		return archive.Nop{}, nil
	}
	return a, nil
}

func printDryRun(cmd *cobra.Command, m *telegram.MockSender) {
	out := cmd.OutOrStdout()
	for _, p := range m.Photos {
		fmt.Fprintf(out, "── photo %s ──\n%s\n\n", p.PhotoPath, p.Caption)
	}
	for i, p := range m.Polls {
		fmt.Fprintf(out, "── poll %d ──\n%s\n", i+1, p.Question)
		for j, o := range p.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, o)
		}
		fmt.Fprintln(out)
	}
}
