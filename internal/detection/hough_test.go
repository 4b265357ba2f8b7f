package detection

import (
	"math"
	"testing"

	"github.com/mushaftools/ayamark/internal/imaging"
)

// drawCircle draws a dark circle outline on the plane using the midpoint
// algorithm.
func drawCircle(p *imaging.Plane, cx, cy, radius int) {
	set := func(px, py int) {
		if px >= 0 && px < p.Width && py >= 0 && py < p.Height {
			p.Pix[py*p.Width+px] = 0
		}
	}

	x := radius
	y := 0
	err := 0
	for x >= y {
		set(cx+x, cy+y)
		set(cx+y, cy+x)
		set(cx-y, cy+x)
		set(cx-x, cy+y)
		set(cx-x, cy-y)
		set(cx-y, cy-x)
		set(cx+y, cy-x)
		set(cx+x, cy-y)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func testParams() CircleParams {
	return CircleParams{
		MinDist:       15,
		EdgeThreshold: 50,
		VoteThreshold: 30,
		MinRadius:     12,
		MaxRadius:     22,
	}
}

func TestDetectCirclesFindsSingleCircle(t *testing.T) {
	plane := newPlane(100, 100, 255)
	drawCircle(plane, 50, 50, 15)

	circles := DetectCircles(plane, testParams())
	if len(circles) == 0 {
		t.Fatal("no circles detected")
	}

	best := circles[0]
	if d := math.Hypot(float64(best.Center.X-50), float64(best.Center.Y-50)); d > 2 {
		t.Errorf("detected center %v too far from (50,50): %f", best.Center, d)
	}
	if best.Radius < 13 || best.Radius > 17 {
		t.Errorf("detected radius %d, want near 15", best.Radius)
	}
}

func TestDetectCirclesSeparatesDistantCircles(t *testing.T) {
	plane := newPlane(200, 100, 255)
	drawCircle(plane, 50, 50, 14)
	drawCircle(plane, 150, 50, 16)

	circles := DetectCircles(plane, testParams())
	if len(circles) != 2 {
		t.Fatalf("expected 2 circles, got %d: %v", len(circles), circles)
	}

	foundLeft, foundRight := false, false
	for _, c := range circles {
		if math.Hypot(float64(c.Center.X-50), float64(c.Center.Y-50)) <= 2 {
			foundLeft = true
		}
		if math.Hypot(float64(c.Center.X-150), float64(c.Center.Y-50)) <= 2 {
			foundRight = true
		}
	}
	if !foundLeft || !foundRight {
		t.Errorf("centers not recovered: %v", circles)
	}
}

func TestDetectCirclesSuppressesNearbyDuplicates(t *testing.T) {
	plane := newPlane(100, 100, 255)
	drawCircle(plane, 50, 50, 15)
	// A second outline one pixel larger shares the center; MinDist
	// suppression must merge the two radii into a single detection.
	drawCircle(plane, 50, 50, 16)

	circles := DetectCircles(plane, testParams())
	if len(circles) != 1 {
		t.Fatalf("expected 1 circle after suppression, got %d: %v", len(circles), circles)
	}
}

func TestDetectCirclesBlankPlane(t *testing.T) {
	plane := newPlane(100, 100, 255)

	circles := DetectCircles(plane, testParams())
	if len(circles) != 0 {
		t.Errorf("expected no circles on blank plane, got %v", circles)
	}
}

func TestDetectCirclesIgnoresRadiiOutsideRange(t *testing.T) {
	plane := newPlane(100, 100, 255)
	drawCircle(plane, 50, 50, 6) // below MinRadius

	circles := DetectCircles(plane, testParams())
	if len(circles) != 0 {
		t.Errorf("expected no circles for r=6 with range [12,22], got %v", circles)
	}
}
