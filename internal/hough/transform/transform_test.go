package transform

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
	"github.com/banshee-data/houghroads/internal/hough/roads"
	"github.com/banshee-data/houghroads/internal/testutil"
)

const nLayers = 8

func baseConfig(threshold int) Config {
	return Config{
		NLayers:    nLayers,
		Grid:       testutil.ScenarioGrid(),
		HitExtend:  make([]float64, nLayers),
		Thresholds: roads.Single(threshold),
		TraceHits:  true,
		Verify:     true,
	}
}

func mustFinder(t *testing.T, cfg Config) *Finder {
	t.Helper()
	f, err := New(cfg)
	require.NoError(t, err)
	return f
}

func straightTrack() *hits.Arena {
	return hits.NewArena(testutil.TrackHits(testutil.ScenarioGrid(), 30, 12, testutil.AllLayers(nLayers)...))
}

func TestSingleTrackGivesOneRoad(t *testing.T) {
	t.Parallel()

	arena := straightTrack()
	f := mustFinder(t, baseConfig(nLayers))
	buf := roads.NewBuffer()
	got, err := f.FindRoads(buf, arena)
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, 30, r.XBin)
	assert.Equal(t, 12, r.YBin)
	assert.Equal(t, hits.FullMask(nLayers), r.HitLayers)
	assert.Zero(t, r.MissingLayers())
	assert.Equal(t, nLayers, r.NHits())
	assert.InDelta(t, 0.005, r.X, 1e-12)
	assert.InDelta(t, 0.25, r.Y, 1e-12)
	assert.Equal(t, 12*60+30, r.PatternID)
	assert.Equal(t, "hough", r.Source)
	testutil.AssertRoadInvariants(t, arena, got)

	im := buf.Image()
	require.NotNil(t, im)
	assert.Equal(t, nLayers, im.Count(30, 12))
	assert.Equal(t, nLayers, im.MaxCount())
	require.NoError(t, accumulator.CheckConsistency(im, nLayers))
}

func TestDisplacedLayerDropsOut(t *testing.T) {
	t.Parallel()

	hs := testutil.TrackHits(testutil.ScenarioGrid(), 30, 12, testutil.AllLayers(nLayers)...)
	hs[0].Phi += 0.02
	arena := hits.NewArena(hs)

	full := mustFinder(t, baseConfig(nLayers))
	got, err := full.FindRoads(roads.NewBuffer(), arena)
	require.NoError(t, err)
	assert.Empty(t, got)

	loose := mustFinder(t, baseConfig(nLayers-1))
	got, err = loose.FindRoads(roads.NewBuffer(), arena)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30, got[0].XBin)
	assert.Equal(t, 12, got[0].YBin)
	assert.Equal(t, hits.MaskOf(0), got[0].MissingLayers())
	assert.Empty(t, got[0].Hits[0])
	testutil.AssertRoadInvariants(t, arena, got)
}

// TestExtensionBoundary moves the innermost hit off the track by whole
// bins. Its projection stays inside one bin, so a half-width of e keeps
// it in the track's cell up to an offset of e bins and loses it one bin
// further out.
func TestExtensionBoundary(t *testing.T) {
	t.Parallel()

	step := testutil.ScenarioGrid().X.Step()
	tests := []struct {
		name    string
		extend  float64
		offset  float64
		wantHit bool
	}{
		{"e=1 at +e", 1, 1, true},
		{"e=1 at -e", 1, -1, true},
		{"e=1 past +e", 1, 2, false},
		{"e=1 past -e", 1, -2, false},
		{"e=1.5 at +e", 1.5, 1.5, true},
		{"e=1.5 at -e", 1.5, -1.5, true},
		{"e=1.5 past +e", 1.5, 2.5, false},
		{"e=1.5 past -e", 1.5, -2.5, false},
		{"e=0 on the line", 0, 0, true},
		{"e=0 one bin off", 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := testutil.TrackHits(testutil.ScenarioGrid(), 30, 12, testutil.AllLayers(nLayers)...)
			hs[0].Phi += tt.offset * step
			arena := hits.NewArena(hs)

			cfg := baseConfig(nLayers)
			cfg.HitExtend[0] = tt.extend
			buf := roads.NewBuffer()
			got, err := mustFinder(t, cfg).FindRoads(buf, arena)
			require.NoError(t, err)

			want := nLayers - 1
			if tt.wantHit {
				want = nLayers
			}
			assert.Equal(t, want, buf.Image().Count(30, 12))
			r, ok := testutil.RoadAt(got, 30, 12)
			assert.Equal(t, tt.wantHit, ok)
			if ok {
				assert.Equal(t, hits.FullMask(nLayers), r.HitLayers)
			}
		})
	}
}

func TestDisjointTracks(t *testing.T) {
	t.Parallel()

	g := testutil.ScenarioGrid()
	hs := testutil.TrackHits(g, 15, 3, 0, 2, 4, 6)
	hs = append(hs, testutil.TrackHits(g, 45, 16, 1, 3, 5, 7)...)
	arena := hits.NewArena(hs)

	f := mustFinder(t, baseConfig(4))
	got, err := f.FindRoads(roads.NewBuffer(), arena)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first, ok := testutil.RoadAt(got, 15, 3)
	require.True(t, ok)
	second, ok := testutil.RoadAt(got, 45, 16)
	require.True(t, ok)
	assert.Equal(t, hits.MaskOf(0, 2, 4, 6), first.HitLayers)
	assert.Equal(t, hits.MaskOf(1, 3, 5, 7), second.HitLayers)

	seen := map[hits.Ref]bool{}
	for _, ref := range first.AllHits() {
		seen[ref] = true
	}
	for _, ref := range second.AllHits() {
		assert.False(t, seen[ref], "hit %d shared by both roads", ref)
	}
	testutil.AssertRoadInvariants(t, arena, got)
}

func TestIdempotentAcrossCalls(t *testing.T) {
	t.Parallel()

	arena := straightTrack()
	f := mustFinder(t, baseConfig(5))
	buf := roads.NewBuffer()

	first, err := f.FindRoads(buf, arena)
	require.NoError(t, err)
	snapshot := append([]roads.Road(nil), first...)

	second, err := f.FindRoads(buf, arena)
	require.NoError(t, err)
	assert.Equal(t, snapshot, second)
	assert.Equal(t, 0, second[0].ID)
}

func TestThresholdMonotonic(t *testing.T) {
	t.Parallel()

	arena := straightTrack()
	prev := map[int]bool{}
	for th := nLayers; th >= 3; th-- {
		got, err := mustFinder(t, baseConfig(th)).FindRoads(roads.NewBuffer(), arena)
		require.NoError(t, err)
		cur := map[int]bool{}
		for _, r := range got {
			cur[r.PatternID] = true
		}
		for id := range prev {
			assert.True(t, cur[id], "threshold %d lost pattern %d", th, id)
		}
		prev = cur
	}
}

func TestLocalMaxima(t *testing.T) {
	t.Parallel()

	arena := straightTrack()
	cfg := baseConfig(5)
	cfg.LocalMaxWindow = 1
	buf := roads.NewBuffer()
	got, err := mustFinder(t, cfg).FindRoads(buf, arena)
	require.NoError(t, err)

	_, ok := testutil.RoadAt(got, 30, 12)
	assert.True(t, ok)
	im := buf.Image()
	for _, a := range got {
		for _, b := range got {
			if a.ID == b.ID {
				continue
			}
			dx, dy := a.XBin-b.XBin, a.YBin-b.YBin
			if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
				continue
			}
			assert.LessOrEqual(t, im.Count(a.XBin, a.YBin), im.Count(b.XBin, b.YBin),
				"road %d dominates neighbour road %d", a.ID, b.ID)
		}
	}

	cfg.TraceHits = false
	_, err = New(cfg)
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestUntracedMatchesTraced(t *testing.T) {
	t.Parallel()

	arena := straightTrack()
	traced, err := mustFinder(t, baseConfig(nLayers)).FindRoads(roads.NewBuffer(), arena)
	require.NoError(t, err)

	cfg := baseConfig(nLayers)
	cfg.TraceHits = false
	f := mustFinder(t, cfg)
	buf := roads.NewBuffer()
	untraced, err := f.FindRoads(buf, arena)
	require.NoError(t, err)
	require.Len(t, untraced, 1)
	assert.Equal(t, traced[0].Hits, untraced[0].Hits)
	assert.Empty(t, buf.Image().At(30, 12).Hits)
}

func TestConvolution(t *testing.T) {
	t.Parallel()

	arena := straightTrack()
	cfg := baseConfig(nLayers)
	cfg.Kernel = accumulator.Kernel{Width: 3, Height: 1, Weights: []int{1, 1, 1}}
	f := mustFinder(t, cfg)
	buf := roads.NewBuffer()
	got, err := f.FindRoads(buf, arena)
	require.NoError(t, err)

	raw := f.BuildImage(arena)
	conv := buf.Image()
	assert.Equal(t, accumulator.Convolve(raw, cfg.Kernel).Counts(), conv.Counts())
	for y := 0; y < raw.NY(); y++ {
		for x := 0; x < raw.NX(); x++ {
			require.GreaterOrEqual(t, conv.Count(x, y), raw.Count(x, y))
		}
	}

	r, ok := testutil.RoadAt(got, 30, 12)
	require.True(t, ok)
	assert.Equal(t, hits.FullMask(nLayers), r.HitLayers)
	testutil.AssertRoadInvariants(t, arena, got)
}

func TestCombinedLayers(t *testing.T) {
	t.Parallel()

	arena := straightTrack()
	cfg := baseConfig(3)
	cfg.CombineLayers = []int{0, 1, 2, 0, 1, 2, 0, 1}
	f := mustFinder(t, cfg)
	assert.Equal(t, 3, f.Groups().NGroups())

	buf := roads.NewBuffer()
	got, err := f.FindRoads(buf, arena)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Image().MaxCount(), "a cell never exceeds the group count")

	r, ok := testutil.RoadAt(got, 30, 12)
	require.True(t, ok)
	assert.Equal(t, hits.FullMask(nLayers), r.HitLayers)
	testutil.AssertRoadInvariants(t, arena, got)

	cfg.CombineLayers = nil
	cfg.CombineLayers2D = [][]int{{0, 3, 6}, {1, 4, 7}, {2, 5}}
	g2 := mustFinder(t, cfg)
	assert.Equal(t, f.BuildImage(arena).Counts(), g2.BuildImage(arena).Counts())
}

func TestBinScale(t *testing.T) {
	t.Parallel()

	arena := hits.NewArena([]hits.Hit{testutil.TrackHit(0, 500, 0, 0, 0)})
	cfg := baseConfig(1)
	cfg.BinScale = []int{4, 1, 1, 1, 1, 1, 1, 1}
	im := mustFinder(t, cfg).BuildImage(arena)
	counts := im.Counts()
	for y := 0; y < 20; y += 4 {
		for k := 1; k < 4; k++ {
			assert.Equal(t, counts[y], counts[y+k], "rows %d and %d share a band", y, y+k)
		}
	}

	cfg.BinScale = []int{4}
	_, err := New(cfg)
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestFieldCorrection(t *testing.T) {
	t.Parallel()

	g := testutil.ScenarioGrid()
	field := projection.DefaultFieldCorrection()
	x0, y0 := g.XCenter(30), g.YCenter(12)
	hs := make([]hits.Hit, 0, nLayers)
	for l, r := range testutil.Radii {
		h := testutil.TrackHit(l, r, x0, y0, 0)
		h.Phi -= field.Delta(3, y0, r)
		hs = append(hs, h)
	}
	arena := hits.NewArena(hs)

	cfg := baseConfig(nLayers)
	cfg.FieldCorrection = true
	cfg.Region = 3
	got, err := mustFinder(t, cfg).FindRoads(roads.NewBuffer(), arena)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30, got[0].XBin)
	assert.Equal(t, 12, got[0].YBin)
}

func TestD0AndSectors(t *testing.T) {
	t.Parallel()

	g := testutil.ScenarioGrid()
	hs := make([]hits.Hit, 0, nLayers)
	for l, r := range testutil.Radii {
		hs = append(hs, testutil.TrackHit(l, r, g.XCenter(30), g.YCenter(12), 2))
	}
	arena := hits.NewArena(hs)

	sectors, err := roads.NewSectorMap([]float64{-1, 0, 1}, true)
	require.NoError(t, err)
	cfg := baseConfig(nLayers)
	cfg.D0 = 2
	cfg.SubRegion = 1
	cfg.Sectors = sectors
	got, err := mustFinder(t, cfg).FindRoads(roads.NewBuffer(), arena)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].D0)
	assert.Equal(t, 1, got[0].SubRegion)
	assert.Equal(t, 1, got[0].Sector)
	assert.Zero(t, got[0].WildcardLayers)
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	got, err := mustFinder(t, baseConfig(1)).FindRoads(roads.NewBuffer(), &hits.Arena{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOutOfImageHitsAreSkipped(t *testing.T) {
	t.Parallel()

	arena := hits.NewArena([]hits.Hit{
		{Layer: 0, R: 40, Phi: 3},
		{Layer: 1, R: 0, Phi: 0},
		{Layer: 12, R: 100, Phi: 0},
	})
	buf := roads.NewBuffer()
	got, err := mustFinder(t, baseConfig(1)).FindRoads(buf, arena)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, buf.Image().MaxCount())
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()

	mutate := map[string]func(*Config){
		"no layers":         func(c *Config) { c.NLayers = 0 },
		"too many layers":   func(c *Config) { c.NLayers = 40 },
		"empty grid":        func(c *Config) { c.Grid = projection.Grid{} },
		"short extension":   func(c *Config) { c.HitExtend = []float64{1} },
		"missing extend":    func(c *Config) { c.HitExtend = nil },
		"short combine":     func(c *Config) { c.CombineLayers = []int{0, 1} },
		"bad kernel":        func(c *Config) { c.Kernel = accumulator.Kernel{Width: 2, Height: 2, Weights: []int{1}} },
		"even threshold":    func(c *Config) { c.Thresholds = roads.Thresholds{Window: []int{1, 1}} },
		"missing threshold": func(c *Config) { c.Thresholds = roads.Thresholds{} },
	}
	for name, fn := range mutate {
		fn := fn
		t.Run(name, func(t *testing.T) {
			cfg := baseConfig(4)
			fn(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}
}

// TestLogging swaps package loggers, so it does not run in parallel.
func TestLogging(t *testing.T) {
	var diag, trace bytes.Buffer
	SetLogWriters(nil, &diag, &trace)
	defer SetLogWriters(nil, nil, nil)

	_, err := mustFinder(t, baseConfig(nLayers)).FindRoads(roads.NewBuffer(), straightTrack())
	require.NoError(t, err)
	assert.Contains(t, diag.String(), "[hough] ")
	assert.Contains(t, diag.String(), "1 roads")
	assert.Contains(t, trace.String(), "group 7")
}
