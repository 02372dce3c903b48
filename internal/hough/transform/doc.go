// Package transform is the standard Hough road finder: hits vote into a
// phi_track versus q/pT image, the image is optionally smoothed, and
// threshold-passing cells become roads.
//
// Key types: Config, Finder.
//
// Dependency rule: transform depends on hits, projection, accumulator and
// roads. It owns no per-event state; callers pass a roads.Buffer.
package transform
