// Package hits owns the per-event detector measurements fed to the road
// finders.
//
// Responsibilities: the Hit record, the caller-owned Arena that engines
// refer into by Ref, the LayerMask bitset, and reading hit dumps.
// Key types: Hit, Arena, Ref, LayerMask, Event.
//
// Dependency rule: hits depends on nothing else under internal/hough.
package hits
