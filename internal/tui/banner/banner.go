// Package banner renders short headings as large block letters using the
// embedded Go Bold font.
package banner

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"
)

// One pixel per half cell: a 10px face is about six terminal rows tall.
const (
	fontSize  = 10
	threshold = 110
)

var (
	faceOnce sync.Once
	face     font.Face
)

func loadFace() font.Face {
	faceOnce.Do(func() {
		f, err := truetype.Parse(gobold.TTF)
		if err != nil {
			return
		}
		face = truetype.NewFace(f, &truetype.Options{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return face
}

// Width returns the number of terminal columns Render would use for text.
func Width(text string) int {
	f := loadFace()
	if f == nil {
		return 0
	}
	return font.MeasureString(f, text).Ceil()
}

// Render draws text as half-block art. It returns "" when the art would be
// wider than maxCols, so callers can fall back to a plain title.
func Render(text string, maxCols int) string {
	f := loadFace()
	if f == nil || text == "" {
		return ""
	}

	width := font.MeasureString(f, text).Ceil()
	if width == 0 || (maxCols > 0 && width > maxCols) {
		return ""
	}

	m := f.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	if height%2 == 1 {
		height++
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: f,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	return trimBlankLines(halfBlocks(img))
}

func halfBlocks(img *image.Gray) string {
	b := img.Bounds()
	var out strings.Builder

	for y := 0; y < b.Max.Y; y += 2 {
		for x := 0; x < b.Max.X; x++ {
			top := on(img, x, y)
			bottom := on(img, x, y+1)

			switch {
			case top && bottom:
				out.WriteRune('█')
			case top:
				out.WriteRune('▀')
			case bottom:
				out.WriteRune('▄')
			default:
				out.WriteRune(' ')
			}
		}
		out.WriteRune('\n')
	}

	return out.String()
}

func on(img *image.Gray, x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return false
	}
	return img.GrayAt(x, y).Y > threshold
}

func trimBlankLines(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
