// Package shift is the bit-shift Hough road finder for barrel layers.
//
// With r nearly constant per layer, scanning q/pT is the same as shifting
// each layer's phi by a fixed number of bins. Patterns are precomputed by
// stepping the outer layer shift, so a scan over curvature becomes a set of
// shifted bit vectors counted across layers.
//
// Key types: TableConfig, Table, Pattern, Config, Finder.
package shift
