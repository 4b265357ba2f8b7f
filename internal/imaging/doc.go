// Package imaging loads and prepares the scanned mushaf page images.
//
// It provides a thread-safe image cache (pages are re-read during threshold
// auto-tuning), page path resolution for both zero-padded and plain file
// names, grayscale plane extraction shared by the two detectors, and marker
// overlay rendering for visual inspection of a run.
//
// # Coordinate System
//
// All operations use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package imaging
