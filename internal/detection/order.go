package detection

import "sort"

// ReadingOrder arranges marker points in the natural reading order of the
// page: rows from top to bottom, and right to left within a row (the script
// is right-to-left, so the first verse of a line ends at its rightmost
// marker).
//
// Points whose vertical distance from the first point of the current row is
// at most rowTolerance belong to that row. Half the template height is the
// conventional tolerance: markers on one text line jitter by a few pixels,
// while adjacent lines are a full line height apart.
//
// The input slice is not modified.
func ReadingOrder(points []Point, rowTolerance float64) []Point {
	if len(points) == 0 {
		return nil
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	var rows [][]Point
	current := []Point{sorted[0]}
	for _, p := range sorted[1:] {
		if absInt(p.Y-current[0].Y) <= int(rowTolerance) {
			current = append(current, p)
		} else {
			rows = append(rows, current)
			current = []Point{p}
		}
	}
	rows = append(rows, current)

	ordered := make([]Point, 0, len(points))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X > row[j].X
		})
		ordered = append(ordered, row...)
	}
	return ordered
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
