// Package spriteart renders sprite images as colored half-block art.
package spriteart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// alphaThreshold is the 16-bit alpha below which a pixel counts as empty.
const alphaThreshold = 0x4000

// ErrEmpty is returned for images with no visible pixels.
var ErrEmpty = errors.New("sprite has no visible pixels")

// Render decodes an image and renders it into at most cols x rows terminal
// cells. Each cell shows two vertical pixels using ▀ and ▄.
func Render(data []byte, cols, rows int) (string, error) {
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("invalid size %dx%d", cols, rows)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding sprite: %w", err)
	}

	bounds := opaqueBounds(src)
	if bounds.Empty() {
		return "", ErrEmpty
	}

	scaled := fit(src, bounds, cols, rows*2)
	return toHalfBlocks(scaled), nil
}

// opaqueBounds returns the smallest rectangle containing every visible
// pixel. PokéAPI sprites carry a wide transparent margin.
func opaqueBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < alphaThreshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x+1 > maxX {
				maxX = x + 1
			}
			if y+1 > maxY {
				maxY = y + 1
			}
		}
	}

	if minX >= maxX || minY >= maxY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}

// fit scales the region r of src into a width x height pixel box,
// preserving aspect ratio. Sprites never scale up beyond the box.
func fit(src image.Image, r image.Rectangle, width, height int) *image.NRGBA {
	w, h := r.Dx(), r.Dy()

	scale := float64(width) / float64(w)
	if s := float64(height) / float64(h); s < scale {
		scale = s
	}

	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	// Half blocks pair rows.
	if dh%2 == 1 {
		dh++
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, r, xdraw.Src, nil)
	return dst
}

func toHalfBlocks(img *image.NRGBA) string {
	b := img.Bounds()
	var out strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top, topOn := pixel(img, x, y)
			bottom, bottomOn := pixel(img, x, y+1)

			switch {
			case topOn && bottomOn:
				out.WriteString(lipgloss.NewStyle().
					Foreground(hex(top)).
					Background(hex(bottom)).
					Render("▀"))
			case topOn:
				out.WriteString(lipgloss.NewStyle().Foreground(hex(top)).Render("▀"))
			case bottomOn:
				out.WriteString(lipgloss.NewStyle().Foreground(hex(bottom)).Render("▄"))
			default:
				out.WriteByte(' ')
			}
		}
		if y+2 < b.Max.Y {
			out.WriteByte('\n')
		}
	}

	return out.String()
}

func pixel(img *image.NRGBA, x, y int) (color.NRGBA, bool) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return color.NRGBA{}, false
	}
	c := img.NRGBAAt(x, y)
	return c, uint32(c.A)*0x101 >= alphaThreshold
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
