package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/chebot/internal/card"
	"github.com/abhisek/chebot/internal/content"
	"github.com/abhisek/chebot/internal/format"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a card and print its caption (no sending, no state)",
	Long: `Render the card for one content item and print its caption.

Nothing is sent and the state file is not touched. Useful for checking
new content and fonts before they go live.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("kind", "", "Content kind: vocab, life_phrase or grammar (required)")
	previewCmd.Flags().Int("index", 0, "Item index; wraps around the list")
	previewCmd.Flags().String("out", "", "Card output path (defaults to the configured card path)")
	_ = previewCmd.MarkFlagRequired("kind")
}

func runPreview(cmd *cobra.Command, args []string) error {
	kindVal, _ := cmd.Flags().GetString("kind")
	index, _ := cmd.Flags().GetInt("index")
	outPath, _ := cmd.Flags().GetString("out")

	kind, err := content.ParseKind(kindVal)
	if err != nil {
		return err
	}
	if !kind.Rotates() {
		return fmt.Errorf("kind %s has no card; use a dry run to see the polls", kind)
	}
	if index < 0 {
		return fmt.Errorf("invalid --index %d: must be >= 0", index)
	}

	cfg := loadConfig(cmd)
	if outPath == "" {
		outPath = cfg.CardPath
	}
	store, err := loadContent(cfg)
	if err != nil {
		return err
	}
	n := store.Len(kind)
	if n == 0 {
		return fmt.Errorf("%w for kind %s", content.ErrNoContent, kind)
	}

	post, err := format.Item(store, kind, index%n)
	if err != nil {
		return err
	}

	fonts := card.FontResolver{Path: cfg.FontPath}.Resolve()
	if _, err := card.NewRenderer(fonts).RenderFile(outPath, post.Title, post.Subtitle); err != nil {
		return fmt.Errorf("render card: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Card: %s (%s font: %s)\n\n", outPath, fonts.Tier, fonts.Source)
	fmt.Fprintln(out, post.Caption)
	return nil
}
