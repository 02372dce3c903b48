// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the synthetic detector geometry and the road
// invariant checks used by the finder tests.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
	"github.com/banshee-data/houghroads/internal/hough/roads"
)

// Radii is an eight-layer barrel in mm. The spread is wide enough that a
// straight-through track lights a single cell of ScenarioGrid.
var Radii = []float64{40, 100, 160, 230, 290, 560, 760, 990}

// ScenarioGrid is phi in [-0.3, 0.3] over 60 bins and q/pT in [-1, 1] over
// 20 bins.
func ScenarioGrid() projection.Grid {
	return projection.Grid{
		X: projection.MustAxis(-0.3, 0.3, 60),
		Y: projection.MustAxis(-1, 1, 20),
	}
}

// TrackHit returns the hit that a track with phi0, qpt and d0 leaves at
// radius r, so that Projector.YToX(qpt, hit) == phi0 exactly.
func TrackHit(layer int, r, phi0, qpt, d0 float64) hits.Hit {
	return hits.Hit{
		Layer: layer,
		Tech:  hits.TechPixel,
		R:     r,
		Phi:   phi0 - math.Asin(projection.A*r*qpt-d0/r),
		Z:     r / 2,
	}
}

// TrackHits places one hit per listed layer on the track at the centre of
// cell (xBin, yBin) of g.
func TrackHits(g projection.Grid, xBin, yBin int, layers ...int) []hits.Hit {
	out := make([]hits.Hit, 0, len(layers))
	for _, l := range layers {
		out = append(out, TrackHit(l, Radii[l], g.XCenter(xBin), g.YCenter(yBin), 0))
	}
	return out
}

// AllLayers lists 0..n-1.
func AllLayers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// AssertRoadInvariants checks every road against the layer accounting
// rules: one hit-layer bit per distinct real layer, bits plus missing
// layers covering the layer count, and hits filed under their own layer.
func AssertRoadInvariants(t testing.TB, arena *hits.Arena, rs []roads.Road) {
	t.Helper()
	ids := map[int]bool{}
	for _, r := range rs {
		if ids[r.ID] {
			t.Errorf("road ID %d repeated", r.ID)
		}
		ids[r.ID] = true

		var layers hits.LayerMask
		for l, refs := range r.Hits {
			for _, ref := range refs {
				h := arena.At(ref)
				if h.Layer != l {
					t.Errorf("road %d: hit %d of layer %d filed under %d", r.ID, ref, h.Layer, l)
				}
				if h.IsReal() {
					layers = layers.Set(h.Layer)
				}
			}
		}
		if layers != r.HitLayers {
			t.Errorf("road %d: hit layers %s, want %s", r.ID, r.HitLayers, layers)
		}
		if got := r.HitLayers.Count() + r.MissingLayers().Count(); got != r.NLayers() {
			t.Errorf("road %d: %d hit + missing layers, want %d", r.ID, got, r.NLayers())
		}
	}
}

// RoadAt returns the first road at bin (x, y).
func RoadAt(rs []roads.Road, x, y int) (roads.Road, bool) {
	for _, r := range rs {
		if r.XBin == x && r.YBin == y {
			return r, true
		}
	}
	return roads.Road{}, false
}
