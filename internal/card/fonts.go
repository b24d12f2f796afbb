package card

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Point sizes for the three text rows.
const (
	TitleSize    = 90
	SubtitleSize = 52
	FooterSize   = 34
)

// PreferredFont is the face looked up when no font path is configured.
const PreferredFont = "DejaVuSans.ttf"

// DefaultFontDirs are searched for PreferredFont, in order.
var DefaultFontDirs = []string{
	".",
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/TTF",
	"/usr/share/fonts/dejavu",
	"/usr/share/fonts/truetype",
	"/usr/local/share/fonts",
	"/Library/Fonts",
}

// Tier identifies which font source served the card.
type Tier int

const (
	TierPreferred Tier = iota
	TierFallback
)

func (t Tier) String() string {
	if t == TierPreferred {
		return "preferred"
	}
	return "fallback"
}

// Fonts are the faces used for one card.
type Fonts struct {
	Title    font.Face
	Subtitle font.Face
	Footer   font.Face

	Tier   Tier
	Source string
	// FallbackReason explains why the preferred face was not used.
	FallbackReason error
}

// FontResolver picks the card font in two tiers: a TrueType file (the
// configured Path, or PreferredFont found in Dirs), then the built-in Go
// Regular face. The second tier always succeeds.
type FontResolver struct {
	Path string
	Dirs []string
}

var errFontNotFound = errors.New("font not found")

// Resolve returns faces at the fixed sizes.
func (r FontResolver) Resolve() *Fonts {
	f, src, err := r.loadPreferred()
	if err == nil {
		fonts := facesFor(f)
		fonts.Tier = TierPreferred
		fonts.Source = src
		return fonts
	}

	fonts := facesFor(fallbackFont)
	fonts.Tier = TierFallback
	fonts.Source = "goregular"
	fonts.FallbackReason = err
	return fonts
}

func (r FontResolver) loadPreferred() (*truetype.Font, string, error) {
	if r.Path != "" {
		f, err := loadFont(r.Path)
		return f, r.Path, err
	}

	dirs := r.Dirs
	if dirs == nil {
		dirs = DefaultFontDirs
	}
	for _, d := range dirs {
		p := filepath.Join(d, PreferredFont)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		f, err := loadFont(p)
		return f, p, err
	}
	return nil, "", fmt.Errorf("%w: %s", errFontNotFound, PreferredFont)
}

func loadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse TTF %s: %w", path, err)
	}
	return f, nil
}

func facesFor(f *truetype.Font) *Fonts {
	return &Fonts{
		Title:    newFace(f, TitleSize),
		Subtitle: newFace(f, SubtitleSize),
		Footer:   newFace(f, FooterSize),
	}
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

var fallbackFont = mustParse(goregular.TTF)

func mustParse(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("parse built-in font: %v", err))
	}
	return f
}
