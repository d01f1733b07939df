package compositor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"signflow/internal/usecase"
)

// pdfCompositor overlays signed placements onto source document bytes
// using image watermarks. Placement geometry arrives as fractions of
// the page size with a top-left origin; PDF user space is bottom-left,
// so the vertical offset is flipped against the page height.
type pdfCompositor struct {
	logger *zap.Logger
}

func NewPDFCompositor(logger *zap.Logger) usecase.Compositor {
	return &pdfCompositor{logger: logger}
}

func (c *pdfCompositor) Compose(ctx context.Context, source []byte, placements []usecase.SignedPlacement) ([]byte, error) {
	conf := model.NewDefaultConfiguration()

	dims, err := api.PageDims(bytes.NewReader(source), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	marks, applied, err := c.buildMarks(dims, placements)
	if err != nil {
		return nil, err
	}

	if applied == 0 {
		// Every placement referenced a missing page; nothing to overlay.
		return append([]byte(nil), source...), nil
	}

	var out bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(source), &out, marks, conf); err != nil {
		return nil, fmt.Errorf("failed to apply watermarks: %w", err)
	}

	c.logger.Info("Composite document generated",
		zap.Int("placements_applied", applied),
		zap.Int("size_bytes", out.Len()),
	)

	return out.Bytes(), nil
}

// buildMarks groups one watermark per placement by page number. A page
// can carry several signatures, so each page maps to a slice.
func (c *pdfCompositor) buildMarks(dims []types.Dim, placements []usecase.SignedPlacement) (map[int][]*model.Watermark, int, error) {
	marks := map[int][]*model.Watermark{}
	applied := 0

	for _, p := range placements {
		if p.PageNumber < 1 || p.PageNumber > len(dims) {
			c.logger.Warn("Placement page out of range, skipping",
				zap.Int("page", p.PageNumber),
				zap.Int("page_count", len(dims)),
			)
			continue
		}

		page := dims[p.PageNumber-1]
		box := placementBox(p, page.Width, page.Height)

		img := p.Image
		if img == nil {
			if p.Text == "" {
				c.logger.Warn("Placement has no image or text, skipping",
					zap.Int("page", p.PageNumber),
				)
				continue
			}
			rendered, err := renderTextImage(p.Text, p.Kind, int(box.W), int(box.H))
			if err != nil {
				return nil, 0, fmt.Errorf("failed to render text content: %w", err)
			}
			img = rendered
		}

		desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:1.0 abs, rot:0", box.X, box.Y)
		wm, err := api.ImageWatermarkForReader(bytes.NewReader(img), desc, true, false, types.POINTS)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to build watermark: %w", err)
		}

		marks[p.PageNumber] = append(marks[p.PageNumber], wm)
		applied++
	}

	return marks, applied, nil
}

// box holds an absolute placement rectangle in PDF points, anchored at
// the bottom-left page corner.
type box struct {
	X, Y, W, H float64
}

func placementBox(p usecase.SignedPlacement, pageW, pageH float64) box {
	w := p.W * pageW
	h := p.H * pageH
	x := p.X * pageW
	// Flip from top-left fractional origin to bottom-left points.
	y := pageH - p.Y*pageH - h
	return box{X: x, Y: y, W: w, H: h}
}
