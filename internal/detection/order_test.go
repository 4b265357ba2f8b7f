package detection

import (
	"reflect"
	"testing"
)

func TestReadingOrderRightToLeftWithinRow(t *testing.T) {
	points := []Point{
		{X: 100, Y: 50},
		{X: 300, Y: 52},
		{X: 200, Y: 48},
	}

	got := ReadingOrder(points, 26)
	want := []Point{
		{X: 300, Y: 52},
		{X: 200, Y: 48},
		{X: 100, Y: 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadingOrder = %v, want %v", got, want)
	}
}

func TestReadingOrderRowsTopToBottom(t *testing.T) {
	points := []Point{
		{X: 50, Y: 200},
		{X: 400, Y: 100},
		{X: 250, Y: 205},
		{X: 100, Y: 102},
	}

	got := ReadingOrder(points, 21)
	want := []Point{
		{X: 400, Y: 100},
		{X: 100, Y: 102},
		{X: 250, Y: 205},
		{X: 50, Y: 200},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadingOrder = %v, want %v", got, want)
	}
}

func TestReadingOrderRowSplitAtTolerance(t *testing.T) {
	// Second point is exactly rowTolerance below the first: same row.
	// Third point is one past: next row.
	points := []Point{
		{X: 10, Y: 100},
		{X: 20, Y: 121},
		{X: 30, Y: 122},
	}

	got := ReadingOrder(points, 21)
	want := []Point{
		{X: 20, Y: 121},
		{X: 10, Y: 100},
		{X: 30, Y: 122},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadingOrder = %v, want %v", got, want)
	}
}

func TestReadingOrderEmpty(t *testing.T) {
	if got := ReadingOrder(nil, 21); got != nil {
		t.Errorf("ReadingOrder(nil) = %v, want nil", got)
	}
}

func TestReadingOrderDoesNotMutateInput(t *testing.T) {
	points := []Point{{X: 1, Y: 9}, {X: 2, Y: 1}}
	snapshot := []Point{{X: 1, Y: 9}, {X: 2, Y: 1}}

	ReadingOrder(points, 5)
	if !reflect.DeepEqual(points, snapshot) {
		t.Errorf("input mutated: %v", points)
	}
}
