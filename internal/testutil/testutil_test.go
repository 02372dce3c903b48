package testutil

import (
	"testing"

	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
	"github.com/banshee-data/houghroads/internal/hough/roads"
)

func TestTrackHitsProjectBack(t *testing.T) {
	t.Parallel()

	g := ScenarioGrid()
	p := projection.Projector{Grid: g}
	for _, h := range TrackHits(g, 30, 12, AllLayers(len(Radii))...) {
		got := p.YToX(g.YCenter(12), h)
		if d := got - g.XCenter(30); d > 1e-12 || d < -1e-12 {
			t.Errorf("layer %d projects to %v, want %v", h.Layer, got, g.XCenter(30))
		}
	}
}

func TestAssertRoadInvariants(t *testing.T) {
	t.Parallel()

	arena := hits.NewArena([]hits.Hit{{Layer: 0}, {Layer: 1}})
	good := roads.Road{ID: 0, Hits: [][]hits.Ref{{0}, {1}, nil}, HitLayers: hits.MaskOf(0, 1)}
	AssertRoadInvariants(t, arena, []roads.Road{good})

	bad := good
	bad.HitLayers = hits.MaskOf(0)
	rec := &recorder{TB: t}
	AssertRoadInvariants(rec, arena, []roads.Road{bad, good})
	if rec.errors != 2 {
		t.Errorf("got %d errors, want a mask error and a repeated ID", rec.errors)
	}
}

// recorder counts failures instead of failing the test.
type recorder struct {
	testing.TB
	errors int
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...interface{}) { r.errors++ }

func TestRoadAt(t *testing.T) {
	t.Parallel()

	rs := []roads.Road{{XBin: 1, YBin: 2, ID: 4}}
	if r, ok := RoadAt(rs, 1, 2); !ok || r.ID != 4 {
		t.Errorf("RoadAt(1,2) = %v, %v", r, ok)
	}
	if _, ok := RoadAt(rs, 2, 1); ok {
		t.Error("RoadAt(2,1) should not match")
	}
}
