package detection

import (
	"math"
	"sort"

	"github.com/mushaftools/ayamark/internal/imaging"
)

// Circle represents a detected circular shape.
type Circle struct {
	// Center is the detected center point of the circle.
	Center Point `json:"center"`

	// Radius is the detected radius in pixels.
	Radius int `json:"radius"`

	// Votes is the raw accumulator count behind the detection. More votes
	// means more of the circumference had supporting edge pixels.
	Votes int `json:"votes"`
}

// CircleParams controls the Hough circle transform. The fields mirror the
// OpenCV HoughCircles parameters the marker data was originally tuned with,
// so the tuned values carry over directly.
type CircleParams struct {
	// MinDist is the minimum distance between the centers of two reported
	// circles. Closer candidates are suppressed in favor of more votes.
	MinDist float64

	// EdgeThreshold is the luminance gradient magnitude a pixel needs to
	// vote in the accumulator (the classical param1).
	EdgeThreshold float64

	// VoteThreshold is the minimum accumulator count for a center to be
	// accepted (the classical param2). Lower values find fainter circles
	// and more false positives.
	VoteThreshold int

	// MinRadius and MaxRadius bound the searched radius range in pixels.
	MinRadius int
	MaxRadius int
}

// voteStep is the angular stride of accumulator voting, in degrees. Each
// edge pixel casts 360/voteStep votes per radius.
const voteStep = 5

// DetectCircles finds circular shapes in a luminance plane using the Hough
// circle transform.
//
// # Algorithm
//
//  1. Edge detection: pixels whose horizontal or vertical luminance gradient
//     exceeds EdgeThreshold become voters.
//  2. Accumulator voting: for each radius in [MinRadius, MaxRadius], every
//     edge pixel votes for the candidate centers a circle of that radius
//     through it would have, every voteStep degrees.
//  3. Peak detection: accumulator cells with at least VoteThreshold votes
//     that are local maxima in a 5x5 window become candidates.
//  4. Suppression: candidates are sorted by votes and greedily kept unless
//     a stronger circle sits within MinDist of their center.
//
// Markers printed as near-perfect rings accumulate a vote per circumference
// edge pixel at the true center, so clean glyphs clear VoteThreshold=30
// comfortably while ligatures and diacritics do not.
func DetectCircles(plane *imaging.Plane, params CircleParams) []Circle {
	width, height := plane.Width, plane.Height
	edges := edgePoints(plane, params.EdgeThreshold)

	var candidates []Circle

	accumulator := make([]int, width*height)
	for radius := params.MinRadius; radius <= params.MaxRadius; radius++ {
		for i := range accumulator {
			accumulator[i] = 0
		}

		// Vote for circle centers.
		offsets := circleOffsets(radius)
		for _, e := range edges {
			for _, off := range offsets {
				cx := e.X - off.X
				cy := e.Y - off.Y
				if cx >= 0 && cx < width && cy >= 0 && cy < height {
					accumulator[cy*width+cx]++
				}
			}
		}

		// Collect local maxima above the vote threshold.
		for y := radius; y < height-radius; y++ {
			for x := radius; x < width-radius; x++ {
				votes := accumulator[y*width+x]
				if votes < params.VoteThreshold {
					continue
				}
				if !isLocalMax(accumulator, width, height, x, y, votes) {
					continue
				}
				candidates = append(candidates, Circle{
					Center: Point{X: x, Y: y},
					Radius: radius,
					Votes:  votes,
				})
			}
		}
	}

	// Strongest candidates win overlapping neighborhoods.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Votes != candidates[j].Votes {
			return candidates[i].Votes > candidates[j].Votes
		}
		if candidates[i].Center.Y != candidates[j].Center.Y {
			return candidates[i].Center.Y < candidates[j].Center.Y
		}
		return candidates[i].Center.X < candidates[j].Center.X
	})

	var kept []Circle
	for _, c := range candidates {
		tooClose := false
		for _, k := range kept {
			dx := float64(c.Center.X - k.Center.X)
			dy := float64(c.Center.Y - k.Center.Y)
			if math.Sqrt(dx*dx+dy*dy) < params.MinDist {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, c)
		}
	}

	return kept
}

// edgePoints returns the pixels whose horizontal or vertical gradient
// magnitude exceeds threshold. Border pixels never vote.
func edgePoints(plane *imaging.Plane, threshold float64) []Point {
	width, height := plane.Width, plane.Height
	var edges []Point

	for y := 1; y < height-1; y++ {
		row := plane.Row(y)
		next := plane.Row(y + 1)
		for x := 1; x < width-1; x++ {
			dx := math.Abs(row[x+1] - row[x])
			dy := math.Abs(next[x] - row[x])
			if dx > threshold || dy > threshold {
				edges = append(edges, Point{X: x, Y: y})
			}
		}
	}

	return edges
}

// circleOffsets precomputes the deduplicated integer offsets of points on a
// circle of the given radius, sampled every voteStep degrees.
func circleOffsets(radius int) []Point {
	seen := make(map[Point]struct{}, 360/voteStep)
	offsets := make([]Point, 0, 360/voteStep)
	for angle := 0; angle < 360; angle += voteStep {
		rad := float64(angle) * math.Pi / 180
		p := Point{
			X: int(math.Round(float64(radius) * math.Cos(rad))),
			Y: int(math.Round(float64(radius) * math.Sin(rad))),
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		offsets = append(offsets, p)
	}
	return offsets
}

// isLocalMax reports whether the accumulator value at (x, y) is not exceeded
// anywhere in the surrounding 5x5 window.
func isLocalMax(accumulator []int, width, height, x, y, votes int) bool {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			if accumulator[ny*width+nx] > votes {
				return false
			}
		}
	}
	return true
}
