package mushaf

// PageCount is the number of pages in the Madani mushaf.
const PageCount = 604

// TotalVerses is the number of verses across all 604 pages.
const TotalVerses = 6236

// Layout describes one of the two page layout classes of the scanned mushaf.
//
// Pages 1 and 2 (Al-Fatiha and the opening of Al-Baqara) are printed inside a
// decorative frame at a smaller scan size and use a larger aya marker glyph
// than the remaining pages, so they carry their own marker template and
// matching threshold.
type Layout struct {
	// Name identifies the layout class ("opening" or "standard").
	Name string

	// PageWidth and PageHeight are the scan dimensions in pixels.
	PageWidth  int
	PageHeight int

	// TemplateSize is the side length of the square aya marker template.
	TemplateSize int

	// DefaultThreshold is the template match score at which detection is
	// attempted first, before any auto-tuning.
	DefaultThreshold float64
}

var (
	// LayoutOpening covers pages 1-2: 486x738 scans with a 52x52 marker.
	LayoutOpening = Layout{
		Name:             "opening",
		PageWidth:        486,
		PageHeight:       738,
		TemplateSize:     52,
		DefaultThreshold: 0.4,
	}

	// LayoutStandard covers pages 3-604: 645x1000 scans with a 42x42 marker.
	LayoutStandard = Layout{
		Name:             "standard",
		PageWidth:        645,
		PageHeight:       1000,
		TemplateSize:     42,
		DefaultThreshold: 0.2685,
	}
)

// LayoutForPage returns the layout class for a 1-based page number.
func LayoutForPage(page int) Layout {
	if page <= 2 {
		return LayoutOpening
	}
	return LayoutStandard
}

// HalfTemplate returns the offset from a marker's template top-left corner to
// its center, matching integer pixel arithmetic.
func (l Layout) HalfTemplate() int {
	return l.TemplateSize / 2
}
