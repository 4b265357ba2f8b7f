package pipeline

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Highlight geometry constants, shared with the rendering applications. The
// mushaf prints 15 text lines per page; LineHeight is the normalized height
// of one line, and the edges leave a margin for the page frame.
const (
	LineHeight    = 0.055
	TopFirstLineY = LineHeight / 2
	LeftEdge      = 0.05
	RightEdge     = 0.95
)

// Segment is one data_verse.csv row: a single-line rectangle of a verse's
// highlight region, in normalized page coordinates.
type Segment struct {
	Page   int
	Surah  int
	Verse  int
	Index  int // 0-based segment ordinal within the verse
	XStart float64
	YStart float64
	XEnd   float64
	YEnd   float64
}

var segmentHeader = []string{
	"page", "surah_number", "verse_number", "segment",
	"x_start", "y_start", "x_end", "y_end",
}

// highlightRow is one text line of a verse highlight: the line's center y and
// the x extent covered on that line.
type highlightRow struct {
	y      float64
	startX float64
	endX   float64
}

// verseHighlightRows computes the lines a verse occupies on its page.
//
// The marker coordinate of a row is the verse END (text is right-to-left, so
// the marker sits at the verse's leftmost extent on its last line). Three
// shapes arise:
//
//   - First verse on the page: from its marker rightward, with full-width
//     rows above when the verse started on an earlier line. The topmost row
//     is inset a quarter line to clear the page frame.
//   - Verse on the same line as its predecessor: one row between the two
//     markers.
//   - Verse spanning lines: the predecessor's line from the left edge to the
//     predecessor's marker, full-width middle lines, and the final line from
//     this verse's marker to the right edge.
func verseHighlightRows(pageRows []MarkerRow, verseIndex int) []highlightRow {
	if verseIndex < 0 || verseIndex >= len(pageRows) {
		return nil
	}
	cur := pageRows[verseIndex]

	if verseIndex == 0 {
		if cur.Y <= TopFirstLineY+LineHeight/2 {
			return []highlightRow{{y: cur.Y, startX: cur.X, endX: RightEdge}}
		}
		var rows []highlightRow
		for y := TopFirstLineY + LineHeight/4; y < cur.Y-LineHeight/2; y += LineHeight {
			rows = append(rows, highlightRow{y: y, startX: LeftEdge, endX: RightEdge})
		}
		return append(rows, highlightRow{y: cur.Y, startX: cur.X, endX: RightEdge})
	}

	prev := pageRows[verseIndex-1]

	// Same line as the previous verse's marker.
	if math.Abs(prev.Y-cur.Y) < LineHeight {
		return []highlightRow{{y: cur.Y, startX: cur.X, endX: prev.X}}
	}

	rows := []highlightRow{{y: prev.Y, startX: LeftEdge, endX: prev.X}}
	for y := prev.Y + LineHeight; y < cur.Y-LineHeight/2; y += LineHeight {
		rows = append(rows, highlightRow{y: y, startX: LeftEdge, endX: RightEdge})
	}
	return append(rows, highlightRow{y: cur.Y, startX: cur.X, endX: RightEdge})
}

// BuildSegments expands marker rows, in the page order and reading order
// data.csv is written in, into per-verse highlight segments.
func BuildSegments(rows []MarkerRow) []Segment {
	var segments []Segment

	// Group rows by page, preserving encounter order.
	start := 0
	for start < len(rows) {
		end := start + 1
		for end < len(rows) && rows[end].Page == rows[start].Page {
			end++
		}
		pageRows := rows[start:end]

		for i, row := range pageRows {
			for segIdx, hr := range verseHighlightRows(pageRows, i) {
				xLo, xHi := hr.startX, hr.endX
				if xHi < xLo {
					xLo, xHi = xHi, xLo
				}
				segments = append(segments, Segment{
					Page:   row.Page,
					Surah:  row.Surah,
					Verse:  row.Verse,
					Index:  segIdx,
					XStart: round4(clamp01(xLo)),
					YStart: round4(clamp01(hr.y - LineHeight/2)),
					XEnd:   round4(clamp01(xHi)),
					YEnd:   round4(clamp01(hr.y + LineHeight/2)),
				})
			}
		}
		start = end
	}

	return segments
}

// WriteSegmentCSV writes data_verse.csv.
func WriteSegmentCSV(path string, segments []Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(segmentHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range segments {
		record := []string{
			strconv.Itoa(s.Page),
			strconv.Itoa(s.Surah),
			strconv.Itoa(s.Verse),
			strconv.Itoa(s.Index),
			formatCoord(s.XStart),
			formatCoord(s.YStart),
			formatCoord(s.XEnd),
			formatCoord(s.YEnd),
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

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
