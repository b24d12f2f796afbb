package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/chebot/internal/content"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content file against its schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		store, err := loadContent(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: ok\n", cfg.ContentPath)
		for _, k := range content.Kinds() {
			fmt.Fprintf(out, "  %-12s %d\n", k, store.Len(k))
		}
		if dc, err := store.DailyCheckItem(); err == nil {
			fmt.Fprintf(out, "  daily check questions: %d\n", len(dc.Questions))
		}
		return nil
	},
}
