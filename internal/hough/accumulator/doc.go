// Package accumulator owns the Hough vote grid.
//
// Responsibilities: the Image of cells with their vote counts and traced
// hit sets, layer-combination groups, convolution smoothing, and
// consistency checks on freshly filled images.
// Key types: Image, Cell, HitSet, LayerGroups, Kernel.
//
// Dependency rule: accumulator may depend on hits and projection, never on
// roads or the finder packages.
package accumulator
