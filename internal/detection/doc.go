// Package detection locates aya marker glyphs in scanned page images.
//
// Two detectors are provided:
//
//   - Template matching: normalized cross-correlation of a reference marker
//     glyph against the page, the primary detector. The correlation score map
//     is computed once per page and can then be thresholded repeatedly, which
//     is what makes the caller's threshold auto-tuning loop cheap.
//   - Hough circle transform: accumulator voting over a radius range, used as
//     a fallback on pages where no match threshold reproduces the expected
//     marker count (ornate or unusually rendered markers).
//
// The template matcher reports marker positions as the top-left corner of
// the template-sized box around the glyph. The circle detector reports
// centers; callers shift them into the top-left convention so downstream
// normalization is uniform.
//
// ReadingOrder arranges detected points the way the page is read: rows top to
// bottom, right to left within a row (right-to-left script).
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package detection
