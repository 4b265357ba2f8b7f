package detection

import (
	"math"
	"testing"

	"github.com/mushaftools/ayamark/internal/imaging"
)

// newPlane creates a plane filled with a uniform value.
func newPlane(width, height int, value float64) *imaging.Plane {
	p := &imaging.Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
	return p
}

// markerTemplate builds a small high-contrast glyph: a dark ring with a dot,
// roughly the structure of an aya marker.
func markerTemplate(size int) *imaging.Plane {
	tpl := newPlane(size, size, 255)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c)
			if d > c-2 && d <= c {
				tpl.Pix[y*size+x] = 0
			}
			if d < 1.5 {
				tpl.Pix[y*size+x] = 40
			}
		}
	}
	return tpl
}

// paste copies src into dst with its top-left corner at (x, y).
func paste(dst, src *imaging.Plane, x, y int) {
	for j := 0; j < src.Height; j++ {
		copy(dst.Row(y+j)[x:x+src.Width], src.Row(j))
	}
}

func TestMatcherExactMatchScoresOne(t *testing.T) {
	tpl := markerTemplate(10)
	page := newPlane(120, 80, 255)
	paste(page, tpl, 20, 30)

	m := NewMatcher(page, tpl)
	if m == nil {
		t.Fatal("NewMatcher returned nil")
	}

	if got := m.Score(20, 30); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("score at exact match = %f, want 1.0", got)
	}
}

func TestMatcherBlankPatchScoresZero(t *testing.T) {
	tpl := markerTemplate(10)
	page := newPlane(120, 80, 255)

	m := NewMatcher(page, tpl)
	if got := m.Score(50, 40); got != 0 {
		t.Errorf("score on blank paper = %f, want 0", got)
	}
}

func TestMatcherUniformGrayPageScoresZero(t *testing.T) {
	tpl := markerTemplate(10)

	// A non-integer luminance (every real grayscale conversion produces
	// these) makes the integral-image variance cancel to a tiny negative
	// number instead of exactly zero; the score must still be 0, not NaN.
	page := newPlane(200, 160, 100.1)

	m := NewMatcher(page, tpl)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			score := m.Score(x, y)
			if math.IsNaN(score) {
				t.Fatalf("NaN score at (%d,%d)", x, y)
			}
			if score != 0 {
				t.Fatalf("score at (%d,%d) = %f, want 0", x, y, score)
			}
		}
	}

	if matches := m.Matches(0.2685); len(matches) != 0 {
		t.Errorf("blank page produced %d phantom markers: %v", len(matches), matches)
	}
}

func TestMatcherFindsMarkerOnGrayPaper(t *testing.T) {
	tpl := markerTemplate(10)
	page := newPlane(120, 80, 100.1)
	paste(page, tpl, 40, 30)

	m := NewMatcher(page, tpl)
	matches := m.Matches(0.9)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	if matches[0] != (Point{X: 40, Y: 30}) {
		t.Errorf("match at %v, want (40,30)", matches[0])
	}
}

func TestMatcherFindsAllOccurrences(t *testing.T) {
	tpl := markerTemplate(10)
	page := newPlane(160, 90, 255)
	paste(page, tpl, 20, 30)
	paste(page, tpl, 120, 40)
	paste(page, tpl, 60, 70)

	m := NewMatcher(page, tpl)
	matches := m.Matches(0.9)

	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d: %v", len(matches), matches)
	}

	want := map[Point]bool{
		{X: 20, Y: 30}:  true,
		{X: 120, Y: 40}: true,
		{X: 60, Y: 70}:  true,
	}
	for _, p := range matches {
		if !want[p] {
			t.Errorf("unexpected match at %v", p)
		}
	}
}

func TestMatcherThinsOverlappingHits(t *testing.T) {
	tpl := markerTemplate(10)
	page := newPlane(120, 80, 255)
	paste(page, tpl, 40, 30)

	m := NewMatcher(page, tpl)

	// A generous threshold admits near-miss offsets around the true
	// location; thinning must still report a single marker.
	matches := m.Matches(0.5)
	if len(matches) != 1 {
		t.Fatalf("expected 1 thinned match, got %d: %v", len(matches), matches)
	}

	p := matches[0]
	if math.Hypot(float64(p.X-40), float64(p.Y-30)) > 3 {
		t.Errorf("thinned match at %v, want near (40,30)", p)
	}
}

func TestMatcherThresholdMonotonic(t *testing.T) {
	tpl := markerTemplate(10)
	page := newPlane(160, 90, 255)
	paste(page, tpl, 20, 30)
	paste(page, tpl, 120, 40)

	m := NewMatcher(page, tpl)

	loose := len(m.Matches(0.3))
	tight := len(m.Matches(0.99))
	if tight > loose {
		t.Errorf("tighter threshold found more matches: %d > %d", tight, loose)
	}
	if tight != 2 {
		t.Errorf("threshold 0.99 should keep exactly the 2 pasted markers, got %d", tight)
	}
}

func TestNewMatcherRejectsOversizedTemplate(t *testing.T) {
	tpl := markerTemplate(10)
	page := newPlane(8, 8, 255)
	if m := NewMatcher(page, tpl); m != nil {
		t.Error("expected nil Matcher when template exceeds page")
	}
}
