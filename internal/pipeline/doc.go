// Package pipeline orchestrates the end-to-end marker data generation: page
// detection with threshold auto-tuning, verse assignment, coordinate
// normalization, CSV output, and the derived per-verse highlight segments.
package pipeline
