// Package doublet finds roads for displaced tracks in a d0 versus q/pT
// image. Every pair of hits on different layers, a radial gap apart,
// fixes one circle per curvature row; the pair votes for the d0 of that
// circle. Triplet mode requires a third hit continuing the pair before it
// may vote.
//
// Key types: Config, Voter, Finder.
package doublet
