// Package card draws the square image attached to vocab, phrase and grammar
// posts. The layout is a single fixed template; text is not wrapped and long
// strings run past the frame.
package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Layout constants, in pixels.
const (
	Size        = 1080
	Padding     = 70
	Radius      = 48
	BorderWidth = 4

	textInset      = 60
	titleOffset    = 140
	subtitleOffset = 290
	footerOffset   = 90
)

// Footer is the channel signature drawn on every card.
const Footer = "Испанский по-аргентински 🇦🇷"

var (
	background    = color.RGBA{245, 245, 245, 255}
	borderColor   = color.RGBA{0, 0, 0, 255}
	titleColor    = color.RGBA{0, 0, 0, 255}
	subtitleColor = color.RGBA{40, 40, 40, 255}
	footerColor   = color.RGBA{90, 90, 90, 255}
)

// Renderer draws cards with a fixed set of fonts.
type Renderer struct {
	fonts *Fonts
}

// NewRenderer returns a renderer using fonts.
func NewRenderer(fonts *Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// Fonts returns the faces the renderer draws with.
func (r *Renderer) Fonts() *Fonts {
	return r.fonts
}

// Render draws a card. The result is always Size x Size.
func (r *Renderer) Render(title, subtitle string) image.Image {
	return r.draw(title, subtitle).Image()
}

func (r *Renderer) draw(title, subtitle string) *gg.Context {
	dc := gg.NewContext(Size, Size)

	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(borderColor)
	dc.SetLineWidth(BorderWidth)
	dc.DrawRoundedRectangle(Padding, Padding, Size-2*Padding, Size-2*Padding, Radius)
	dc.Stroke()

	x := float64(Padding + textInset)
	drawText(dc, r.fonts.Title, titleColor, title, x, Padding+titleOffset)
	drawText(dc, r.fonts.Subtitle, subtitleColor, subtitle, x, Padding+subtitleOffset)
	drawText(dc, r.fonts.Footer, footerColor, Footer, x, Size-Padding-footerOffset)

	return dc
}

// drawText places s with its top-left corner at (x, y).
func drawText(dc *gg.Context, face font.Face, c color.Color, s string, x, y float64) {
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(s, x, y, 0, 1)
}

// RenderFile renders a card, writes it as PNG to path (overwriting any
// previous card) and returns the encoded bytes.
func (r *Renderer) RenderFile(path, title, subtitle string) ([]byte, error) {
	dc := r.draw(title, subtitle)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create card dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write card: %w", err)
	}
	return buf.Bytes(), nil
}
