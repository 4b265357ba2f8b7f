package pipeline

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/mushaftools/ayamark/internal/detection"
	"github.com/mushaftools/ayamark/internal/imaging"
	"github.com/mushaftools/ayamark/internal/mushaf"
)

// Options holds the tunable detection parameters. The defaults reproduce the
// values the published data set was generated with.
type Options struct {
	// SweepStart, SweepEnd and SweepStep define the half-open threshold
	// range [SweepStart, SweepEnd) tried when the layout's default
	// threshold does not reproduce the expected marker count.
	SweepStart float64
	SweepEnd   float64
	SweepStep  float64

	// HoughVotes is the accumulator vote ladder tried by the circle
	// fallback, strictest first.
	HoughVotes []int

	// HoughMinDist is the minimum distance between fallback circle centers.
	HoughMinDist float64

	// HoughEdgeThreshold is the gradient magnitude needed to vote.
	HoughEdgeThreshold float64

	// HoughMinRadius and HoughMaxRadius bound the marker radius search.
	HoughMinRadius int
	HoughMaxRadius int

	// HoughBlurRadius is the Gaussian blur applied before circle voting.
	HoughBlurRadius float64

	// TopMargin and BottomMargin trim the page header and footer bands
	// from fallback detections (page numbers and frame artwork are round).
	TopMargin    int
	BottomMargin int
}

// DefaultOptions returns the parameter set the shipped data was tuned with.
func DefaultOptions() Options {
	return Options{
		SweepStart:         0.200,
		SweepEnd:           0.500,
		SweepStep:          0.005,
		HoughVotes:         []int{30, 28, 25},
		HoughMinDist:       15,
		HoughEdgeThreshold: 50,
		HoughMinRadius:     12,
		HoughMaxRadius:     22,
		HoughBlurRadius:    1.5,
		TopMargin:          40,
		BottomMargin:       50,
	}
}

// Method records which detector produced a page's marker set.
type Method string

const (
	MethodDefault Method = "template"       // default threshold matched
	MethodSweep   Method = "template-sweep" // auto-tuned threshold
	MethodHough   Method = "hough"          // circle fallback
	MethodNone    Method = "missing"        // page scan absent, nothing ran
)

// PageDetection is the outcome of detecting one page.
type PageDetection struct {
	// Points are the marker template-top-left positions in reading order.
	Points []detection.Point

	// Expected is the verse count the page should carry.
	Expected int

	// Matched reports whether len(Points) == Expected.
	Matched bool

	// Method is the detector that produced Points.
	Method Method

	// Threshold is the template match threshold used (zero for hough).
	Threshold float64
}

// PageDetector runs marker detection for individual pages.
type PageDetector struct {
	cache     *imaging.ImageCache
	imagesDir string
	templates map[string]*imaging.Plane
	opts      Options
}

// NewPageDetector builds a detector over an images directory. templates maps
// layout names (mushaf.Layout.Name) to marker template planes.
func NewPageDetector(imagesDir string, templates map[string]*imaging.Plane, opts Options) *PageDetector {
	return &PageDetector{
		cache:     imaging.NewImageCache(),
		imagesDir: imagesDir,
		templates: templates,
		opts:      opts,
	}
}

// LoadTemplates reads the two marker template images and converts them to
// luminance planes keyed by layout name.
func LoadTemplates(openingPath, standardPath string) (map[string]*imaging.Plane, error) {
	cache := imaging.NewImageCache()

	opening, err := cache.Load(openingPath)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	standard, err := cache.Load(standardPath)
	if err != nil {
		return nil, fmt.Errorf("standard template: %w", err)
	}

	return map[string]*imaging.Plane{
		mushaf.LayoutOpening.Name:  imaging.ToGray(opening),
		mushaf.LayoutStandard.Name: imaging.ToGray(standard),
	}, nil
}

// PageImage returns the decoded scan of a page, for annotation output.
func (d *PageDetector) PageImage(page int) (image.Image, error) {
	return d.cache.LoadPage(d.imagesDir, page)
}

// EvictPage drops a fully processed page from the image cache.
func (d *PageDetector) EvictPage(page int) {
	if path, err := imaging.PagePath(d.imagesDir, page); err == nil {
		d.cache.Evict(path)
	}
}

// DetectPage locates the aya markers of one page and returns them in reading
// order.
//
// The layout's default threshold is tried first. If the count is off, the
// threshold sweep keeps the candidate set whose count is closest to expected
// (exact match wins immediately). If the sweep still mismatches, the Hough
// circle fallback walks its vote ladder. A page whose scan is missing yields
// an unmatched empty detection rather than an error, so one lost file does
// not abort a whole-mushaf run.
func (d *PageDetector) DetectPage(page, expected int) (PageDetection, error) {
	layout := mushaf.LayoutForPage(page)
	template, ok := d.templates[layout.Name]
	if !ok {
		return PageDetection{}, fmt.Errorf("no template for layout %q", layout.Name)
	}

	img, err := d.cache.LoadPage(d.imagesDir, page)
	if errors.Is(err, imaging.ErrPageNotFound) {
		return PageDetection{Expected: expected, Method: MethodNone}, nil
	}
	if err != nil {
		return PageDetection{}, fmt.Errorf("page %d: %w", page, err)
	}

	gray := imaging.ToGray(img)
	rowTolerance := float64(layout.TemplateSize) / 2

	matcher := detection.NewMatcher(gray, template)
	if matcher == nil {
		return PageDetection{}, fmt.Errorf("page %d: scan smaller than marker template", page)
	}

	det := PageDetection{
		Expected:  expected,
		Method:    MethodDefault,
		Threshold: layout.DefaultThreshold,
		Points:    matcher.Matches(layout.DefaultThreshold),
	}
	if len(det.Points) == expected {
		det.Matched = true
		det.Points = detection.ReadingOrder(det.Points, rowTolerance)
		return det, nil
	}

	// Threshold sweep: keep the count-diff minimizer.
	best := det.Points
	bestDiff := absInt(len(best) - expected)
	bestThreshold := layout.DefaultThreshold
	steps := int(math.Round((d.opts.SweepEnd - d.opts.SweepStart) / d.opts.SweepStep))
	for i := 0; i < steps && bestDiff != 0; i++ {
		t := d.opts.SweepStart + float64(i)*d.opts.SweepStep
		points := matcher.Matches(t)
		if diff := absInt(len(points) - expected); diff < bestDiff {
			best, bestDiff, bestThreshold = points, diff, t
		}
	}
	if bestDiff == 0 {
		return PageDetection{
			Points:    detection.ReadingOrder(best, rowTolerance),
			Expected:  expected,
			Matched:   true,
			Method:    MethodSweep,
			Threshold: bestThreshold,
		}, nil
	}

	// Circle fallback, loosening the vote requirement step by step.
	blurred := imaging.BlurredGray(img, d.opts.HoughBlurRadius)
	for _, votes := range d.opts.HoughVotes {
		points := d.houghPoints(blurred, votes)
		if len(points) == expected {
			return PageDetection{
				Points:   detection.ReadingOrder(points, rowTolerance),
				Expected: expected,
				Matched:  true,
				Method:   MethodHough,
			}, nil
		}
	}

	// Nothing matched: report the sweep's closest attempt.
	return PageDetection{
		Points:    detection.ReadingOrder(best, rowTolerance),
		Expected:  expected,
		Method:    MethodSweep,
		Threshold: bestThreshold,
	}, nil
}

// houghPoints runs the circle transform and converts accepted centers to the
// template-top-left convention shared with the matcher. The fallback is
// calibrated on the standard marker glyph, so centers shift by the standard
// template's half regardless of the page's layout class.
func (d *PageDetector) houghPoints(plane *imaging.Plane, votes int) []detection.Point {
	circles := detection.DetectCircles(plane, detection.CircleParams{
		MinDist:       d.opts.HoughMinDist,
		EdgeThreshold: d.opts.HoughEdgeThreshold,
		VoteThreshold: votes,
		MinRadius:     d.opts.HoughMinRadius,
		MaxRadius:     d.opts.HoughMaxRadius,
	})

	half := mushaf.LayoutStandard.HalfTemplate()
	points := make([]detection.Point, 0, len(circles))
	for _, c := range circles {
		if c.Center.Y <= d.opts.TopMargin || c.Center.Y >= plane.Height-d.opts.BottomMargin {
			continue
		}
		points = append(points, detection.Point{
			X: c.Center.X - half,
			Y: c.Center.Y - half,
		})
	}
	return points
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
