// Package pipeline assembles the road finders a tuning configuration asks
// for into one roads.Union and exposes the per-finder images for
// diagnostics.
package pipeline
