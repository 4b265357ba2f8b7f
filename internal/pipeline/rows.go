package pipeline

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/mushaftools/ayamark/internal/detection"
	"github.com/mushaftools/ayamark/internal/mushaf"
)

// MarkerRow is one data.csv row: the normalized center of a verse's end
// marker on its page.
//
// X and Y are page-relative in [0, 1]; a consumer renders the marker at
// (X*displayWidth, Y*displayHeight).
type MarkerRow struct {
	Surah int
	Verse int
	Page  int
	X     float64
	Y     float64
}

// markerHeader is the data.csv column order.
var markerHeader = []string{"surah_number", "verse_number", "page", "x", "y"}

// Normalize converts a marker's template-top-left pixel position to its
// normalized center, rounded to 4 decimals.
func Normalize(layout mushaf.Layout, p detection.Point) (x, y float64) {
	half := layout.HalfTemplate()
	x = round4(float64(p.X+half) / float64(layout.PageWidth))
	y = round4(float64(p.Y+half) / float64(layout.PageHeight))
	return x, y
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// AssignVerses pairs a page's expected verse sequence with its detected
// markers in reading order and returns one normalized row per verse.
//
// Every expected verse yields a row even when detection came up short: the
// tail is pinned to the last detected marker, or to the page origin when the
// page produced no detections at all. Downstream consumers rely on data.csv
// carrying all 6236 verses.
func AssignVerses(page int, refs []mushaf.VerseRef, points []detection.Point) []MarkerRow {
	layout := mushaf.LayoutForPage(page)

	rows := make([]MarkerRow, 0, len(refs))
	for i, ref := range refs {
		var p detection.Point
		switch {
		case i < len(points):
			p = points[i]
		case len(points) > 0:
			p = points[len(points)-1]
		}

		x, y := Normalize(layout, p)
		rows = append(rows, MarkerRow{
			Surah: ref.Surah,
			Verse: ref.Verse,
			Page:  page,
			X:     x,
			Y:     y,
		})
	}
	return rows
}

// WriteMarkerCSV writes data.csv.
func WriteMarkerCSV(path string, rows []MarkerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(markerHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Surah),
			strconv.Itoa(r.Verse),
			strconv.Itoa(r.Page),
			formatCoord(r.X),
			formatCoord(r.Y),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// LoadMarkerCSV reads a data.csv previously written by WriteMarkerCSV,
// preserving row order.
func LoadMarkerCSV(path string) ([]MarkerRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	rows := make([]MarkerRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(markerHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d fields, got %d", path, i+2, len(markerHeader), len(rec))
		}
		row, err := parseMarkerRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseMarkerRecord(rec []string) (MarkerRow, error) {
	surah, err := strconv.Atoi(rec[0])
	if err != nil {
		return MarkerRow{}, fmt.Errorf("bad surah: %w", err)
	}
	verse, err := strconv.Atoi(rec[1])
	if err != nil {
		return MarkerRow{}, fmt.Errorf("bad verse: %w", err)
	}
	page, err := strconv.Atoi(rec[2])
	if err != nil {
		return MarkerRow{}, fmt.Errorf("bad page: %w", err)
	}
	x, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return MarkerRow{}, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return MarkerRow{}, fmt.Errorf("bad y: %w", err)
	}
	return MarkerRow{Surah: surah, Verse: verse, Page: page, X: x, Y: y}, nil
}

// formatCoord renders a normalized coordinate with the fewest digits that
// round-trip (0.5 stays "0.5", not "0.5000").
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
