// Package projection maps hits into Hough parameter space.
//
// Responsibilities: uniform axes, the hit-to-track-phi relation with its
// field correction, and the policy deciding how many neighbouring bins a
// hit fires to model detector resolution.
// Key types: Axis, Grid, Projector, FieldCorrection, ExtensionPolicy.
//
// Units follow the detector convention: lengths in mm, angles in radians,
// q/pT in e/GeV.
package projection
