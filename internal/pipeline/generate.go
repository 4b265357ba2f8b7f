package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/mushaftools/ayamark/internal/imaging"
	"github.com/mushaftools/ayamark/internal/mushaf"
)

// Issue records a page whose final detection count still differed from the
// expected verse count after auto-tuning and the circle fallback.
type Issue struct {
	Page     int
	Expected int
	Detected int
	Method   Method
}

// Result is the outcome of a whole-mushaf generation run.
type Result struct {
	// Rows holds one entry per expected verse, in page order then reading
	// order; TotalVerses entries for a complete mapping.
	Rows []MarkerRow

	// Issues lists pages whose marker count could not be reconciled.
	Issues []Issue
}

// Generator runs marker detection and verse assignment over every page.
type Generator struct {
	detector *PageDetector
	mapping  mushaf.PageVerses

	// AnnotateDir, when non-empty, receives an annotated copy of every
	// processed page for visual inspection.
	AnnotateDir string

	// Progress, when non-nil, is called after each processed page.
	Progress func(page int)
}

// NewGenerator pairs a page detector with the authoritative mapping.
func NewGenerator(detector *PageDetector, mapping mushaf.PageVerses) *Generator {
	return &Generator{detector: detector, mapping: mapping}
}

// Run processes pages 1..PageCount in order. Detection trouble on a page is
// recorded as an Issue, not an error; Run fails only on malformed inputs or
// context cancellation.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	if err := g.mapping.Validate(); err != nil {
		return nil, fmt.Errorf("page-verse mapping: %w", err)
	}

	result := &Result{Rows: make([]MarkerRow, 0, mushaf.TotalVerses)}

	for page := 1; page <= mushaf.PageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		refs := g.mapping[page]
		det, err := g.detector.DetectPage(page, len(refs))
		if err != nil {
			return nil, err
		}

		if !det.Matched {
			result.Issues = append(result.Issues, Issue{
				Page:     page,
				Expected: det.Expected,
				Detected: len(det.Points),
				Method:   det.Method,
			})
			slog.Warn("marker count mismatch",
				"page", page,
				"expected", det.Expected,
				"detected", len(det.Points),
				"method", det.Method)
		} else {
			slog.Debug("page detected",
				"page", page,
				"markers", len(det.Points),
				"method", det.Method,
				"threshold", det.Threshold)
		}

		result.Rows = append(result.Rows, AssignVerses(page, refs, det.Points)...)

		if g.AnnotateDir != "" {
			if err := g.annotatePage(page, det); err != nil {
				slog.Warn("failed to annotate page", "page", page, "error", err)
			}
		}

		g.detector.EvictPage(page)
		if g.Progress != nil {
			g.Progress(page)
		}
	}

	return result, nil
}

// annotatePage writes a copy of the page scan with detected markers outlined.
func (g *Generator) annotatePage(page int, det PageDetection) error {
	if len(det.Points) == 0 {
		return nil
	}

	img, err := g.detector.PageImage(page)
	if err != nil {
		return err
	}

	size := mushaf.LayoutForPage(page).TemplateSize
	boxes := make([]image.Rectangle, len(det.Points))
	for i, p := range det.Points {
		boxes[i] = image.Rect(p.X, p.Y, p.X+size, p.Y+size)
	}

	out := filepath.Join(g.AnnotateDir, fmt.Sprintf("%03d.png", page))
	return imaging.AnnotateMarkers(img, boxes, out)
}
