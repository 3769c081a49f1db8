// Package imaging renders the post-refresh summary card: total country
// count, top countries by estimated GDP, and the refresh timestamp.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/country-pulse/country-pulse/app/database"
)

const (
	imageWidth  = 640
	imageHeight = 360

	marginX    = 32
	lineHeight = 24
)

var (
	backgroundColor = color.RGBA{R: 18, G: 24, B: 38, A: 255}
	titleColor      = color.RGBA{R: 255, G: 214, B: 102, A: 255}
	textColor       = color.RGBA{R: 230, G: 235, B: 245, A: 255}
	mutedColor      = color.RGBA{R: 140, G: 150, B: 170, A: 255}
)

// Renderer writes the summary image to a fixed path. The write is
// temp-file-and-rename, so the file at path is always a complete image.
type Renderer struct {
	path    string
	printer *message.Printer
}

func NewRenderer(path string) *Renderer {
	return &Renderer{
		path:    path,
		printer: message.NewPrinter(language.English),
	}
}

func (r *Renderer) Run(totalCountries int, top []database.Country, asOf time.Time) error {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	y := 48
	r.drawText(img, marginX, y, titleColor, "Country Data Summary")

	y += 2 * lineHeight
	r.drawText(img, marginX, y, textColor, r.printer.Sprintf("Total countries: %d", totalCountries))

	y += 2 * lineHeight
	r.drawText(img, marginX, y, textColor, "Top countries by estimated GDP (USD):")

	if len(top) == 0 {
		y += lineHeight
		r.drawText(img, marginX+16, y, mutedColor, "no data")
	}
	for i, c := range top {
		y += lineHeight
		gdpValue := 0.0
		if c.EstimatedGDP != nil {
			gdpValue = *c.EstimatedGDP
		}
		line := r.printer.Sprintf("%d. %s: %.0f", i+1, c.Name, gdpValue)
		r.drawText(img, marginX+16, y, textColor, line)
	}

	r.drawText(img, marginX, imageHeight-32, mutedColor,
		fmt.Sprintf("Refreshed at %s", asOf.UTC().Format(time.RFC3339)))

	return r.write(img)
}

func (r *Renderer) drawText(img *image.RGBA, x, y int, col color.Color, text string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func (r *Renderer) write(img *image.RGBA) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "summary-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp image file: %w", err)
	}

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode summary image: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp image file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move summary image into place: %w", err)
	}

	return nil
}
