// Package roads owns road candidates and their extraction from vote images.
//
// Responsibilities: the Road record, the caller-owned Buffer that carries
// per-call state, threshold and local-maximum tests, sector lookup, and
// the Finder interface with its concatenating Union.
// Key types: Road, Buffer, Thresholds, Extractor, SectorMap, Finder, Union.
//
// Dependency rule: roads may depend on hits, projection and accumulator.
// Finder implementations live in their own packages and depend on roads.
package roads
