package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// renderTextImage rasterizes text content into a transparent PNG of
// the placement's pixel dimensions. Signatures and initials use an
// italic face to suggest handwriting; dates and plain text stay
// regular. The font size scales with the placement height the same
// way for every kind, so compositing stays deterministic.
func renderTextImage(text, kind string, width, height int) ([]byte, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	ttf := goitalic.TTF
	var scale float64
	switch kind {
	case "initials":
		scale = 0.8
	case "date", "text":
		ttf = goregular.TTF
		scale = 0.4
	default:
		scale = 0.6
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(height) * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build font face: %w", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	// Center horizontally and sit the baseline in the vertical middle.
	advance := drawer.MeasureString(text)
	metrics := face.Metrics()
	x := (fixed.I(width) - advance) / 2
	if x < 0 {
		x = 0
	}
	y := (fixed.I(height) + metrics.Ascent - metrics.Descent) / 2

	drawer.Dot = fixed.Point26_6{X: x, Y: y}
	drawer.DrawString(text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode signature image: %w", err)
	}

	return buf.Bytes(), nil
}
