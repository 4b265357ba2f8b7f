package detection

import (
	"math"

	"github.com/mushaftools/ayamark/internal/imaging"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Matcher holds the correlation score map of one page/template pair.
//
// The score at (x, y) is the normalized cross-correlation of the zero-mean
// template with the zero-mean page patch whose top-left corner is (x, y):
//
//	score = Σ(T'·I') / sqrt(ΣT'² · ΣI'²)
//
// where T' = T - mean(T) and I' = patch - mean(patch). Scores range from -1
// (inverted match) through 0 (no correlation) to 1 (exact match). A patch
// with zero variance (blank paper) scores 0.
//
// Computing the map is the expensive step; thresholding it is a linear scan.
// Callers sweeping thresholds construct one Matcher per page and reuse it.
type Matcher struct {
	scores    []float64
	width     int // score map width  = pageW - templateW + 1
	height    int // score map height = pageH - templateH + 1
	templateW int
	templateH int
}

// NewMatcher computes the correlation score map of template over page.
// Returns nil when the template does not fit inside the page.
func NewMatcher(page, template *imaging.Plane) *Matcher {
	tw, th := template.Width, template.Height
	outW := page.Width - tw + 1
	outH := page.Height - th + 1
	if outW <= 0 || outH <= 0 {
		return nil
	}

	// Zero-mean template and its energy.
	n := float64(tw * th)
	var tplSum float64
	for _, v := range template.Pix {
		tplSum += v
	}
	tplMean := tplSum / n

	tplZero := make([]float64, len(template.Pix))
	var tplEnergy float64
	for i, v := range template.Pix {
		d := v - tplMean
		tplZero[i] = d
		tplEnergy += d * d
	}

	// Integral images of the page and its squares give patch sums in O(1),
	// so only the cross term needs the full template loop per position.
	sum, sqSum := integralImages(page)

	m := &Matcher{
		scores:    make([]float64, outW*outH),
		width:     outW,
		height:    outH,
		templateW: tw,
		templateH: th,
	}

	const eps = 1e-9
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			cross := 0.0
			ti := 0
			for j := 0; j < th; j++ {
				row := page.Row(y + j)[x : x+tw]
				for i := 0; i < tw; i++ {
					cross += tplZero[ti] * row[i]
					ti++
				}
			}

			patchSum := rectSum(sum, page.Width, x, y, tw, th)
			patchSqSum := rectSum(sqSum, page.Width, x, y, tw, th)
			// Summed-area cancellation can push the variance of a
			// near-constant patch slightly negative; sqrt of that is
			// NaN, which no threshold comparison would reject.
			patchVar := patchSqSum - patchSum*patchSum/n
			if patchVar <= 0 {
				continue
			}

			denom := math.Sqrt(tplEnergy * patchVar)
			if denom < eps {
				continue
			}
			// Σ T'·I == Σ T'·I' because Σ T' = 0.
			m.scores[y*outW+x] = cross / denom
		}
	}

	return m
}

// Score returns the correlation score at a top-left position.
func (m *Matcher) Score(x, y int) float64 {
	return m.scores[y*m.width+x]
}

// Matches returns the template-top-left positions scoring at least threshold,
// thinned so no two returned points are closer than max(templateW, templateH).
// Candidates are considered in row-major scan order, so among a cluster of
// overlapping hits the topmost-leftmost one survives.
func (m *Matcher) Matches(threshold float64) []Point {
	minDist := float64(m.templateW)
	if m.templateH > m.templateW {
		minDist = float64(m.templateH)
	}

	var distinct []Point
	for y := 0; y < m.height; y++ {
		row := m.scores[y*m.width : (y+1)*m.width]
		for x, score := range row {
			if score < threshold {
				continue
			}
			candidate := Point{X: x, Y: y}
			if isolated(candidate, distinct, minDist) {
				distinct = append(distinct, candidate)
			}
		}
	}
	return distinct
}

// isolated reports whether p is at least minDist away from every kept point.
func isolated(p Point, kept []Point, minDist float64) bool {
	for _, q := range kept {
		dx := float64(p.X - q.X)
		dy := float64(p.Y - q.Y)
		if math.Sqrt(dx*dx+dy*dy) < minDist {
			return false
		}
	}
	return true
}

// integralImages returns summed-area tables of the plane and its squares,
// each sized (width+1)*(height+1) with a zero top row and left column.
func integralImages(p *imaging.Plane) (sum, sqSum []float64) {
	w, h := p.Width, p.Height
	stride := w + 1
	sum = make([]float64, stride*(h+1))
	sqSum = make([]float64, stride*(h+1))

	for y := 0; y < h; y++ {
		var rowSum, rowSqSum float64
		src := p.Row(y)
		for x := 0; x < w; x++ {
			v := src[x]
			rowSum += v
			rowSqSum += v * v
			idx := (y+1)*stride + x + 1
			sum[idx] = sum[idx-stride] + rowSum
			sqSum[idx] = sqSum[idx-stride] + rowSqSum
		}
	}
	return sum, sqSum
}

// rectSum evaluates a summed-area table over the rectangle at (x, y) with the
// given width and height.
func rectSum(table []float64, imageW, x, y, w, h int) float64 {
	stride := imageW + 1
	a := table[y*stride+x]
	b := table[y*stride+x+w]
	c := table[(y+h)*stride+x]
	d := table[(y+h)*stride+x+w]
	return d - b - c + a
}
