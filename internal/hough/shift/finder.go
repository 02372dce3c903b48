package shift

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
	"github.com/banshee-data/houghroads/internal/hough/roads"
)

const component = "shift"

// Config describes one bit-shift finder.
type Config struct {
	NLayers int
	// Phi bins both the hit phi vectors and the track phi of roads.
	Phi projection.Axis
	// Table generates the patterns. Its Step is taken from Phi and empty
	// Radii default to DefaultRadii.
	Table TableConfig
	// Shifts replaces the generated patterns with a precomputed table.
	Shifts [][]int
	// HitExtend is the per-layer half-width in bins, or empty.
	HitExtend      []float64
	Thresholds     roads.Thresholds
	LocalMaxWindow int
	TraceHits      bool
	// PhiRangeCut drops roads whose track phi lies outside
	// [RegionPhiMin, RegionPhiMax].
	PhiRangeCut                bool
	RegionPhiMin, RegionPhiMax float64
	SubRegion                  int
	Sectors                    *roads.SectorMap
}

// Finder implements roads.Finder with per-layer phi bit vectors that are
// shifted by each pattern and counted across layers.
type Finder struct {
	cfg       Config
	table     *Table
	ext       projection.FixedExtension
	extractor *roads.Extractor
}

// New validates cfg and builds the pattern table.
func New(cfg Config) (*Finder, error) {
	if cfg.NLayers <= 0 || cfg.NLayers > hits.MaxLayers {
		return nil, errs.Invalid(component, "layers", "need 1 to %d layers, got %d", hits.MaxLayers, cfg.NLayers)
	}
	if cfg.Phi.Bins <= 0 {
		return nil, errs.Invalid(component, "phi_bins", "must be positive, got %d", cfg.Phi.Bins)
	}
	var ext projection.FixedExtension
	if len(cfg.HitExtend) > 0 {
		pol, err := projection.NewExtension(cfg.HitExtend, cfg.NLayers, 1)
		if err != nil {
			return nil, err
		}
		fe, ok := pol.(projection.FixedExtension)
		if !ok {
			return nil, errs.Invalid(component, "hit_extend", "need %d entries, got %d", cfg.NLayers, len(cfg.HitExtend))
		}
		ext = fe
	}
	if cfg.PhiRangeCut && !(cfg.RegionPhiMax > cfg.RegionPhiMin) {
		return nil, errs.Invalid(component, "phi_range_cut", "region phi range [%v, %v] is empty", cfg.RegionPhiMin, cfg.RegionPhiMax)
	}

	tc := cfg.Table
	tc.Step = cfg.Phi.Step()
	if len(tc.Radii) == 0 {
		tc.Radii = DefaultRadii
	}
	if len(tc.Radii) != cfg.NLayers {
		return nil, errs.Invalid(component, "radii", "need %d radii, got %d", cfg.NLayers, len(tc.Radii))
	}
	var (
		table *Table
		err   error
	)
	if len(cfg.Shifts) > 0 {
		table, err = TableFromShifts(cfg.Shifts, tc.Radii, tc.Step)
	} else {
		table, err = BuildTable(tc)
	}
	if err != nil {
		return nil, err
	}

	f := &Finder{cfg: cfg, table: table, ext: ext}
	f.extractor, err = roads.NewExtractor(roads.ExtractorConfig{
		Source:         component,
		NLayers:        cfg.NLayers,
		Thresholds:     cfg.Thresholds,
		LocalMaxWindow: cfg.LocalMaxWindow,
		TraceHits:      cfg.TraceHits,
		Sectors:        cfg.Sectors,
		SubRegion:      cfg.SubRegion,
		Accept:         f.accept,
	}, patternBins{phi: cfg.Phi, table: table})
	if err != nil {
		return nil, err
	}
	diagf("%d patterns over %d phi bins, outer layer %d", table.Len(), cfg.Phi.Bins, table.OuterLayer())
	return f, nil
}

// Table returns the pattern table in use.
func (f *Finder) Table() *Table { return f.table }

// Config returns the configuration the finder was built from.
func (f *Finder) Config() Config { return f.cfg }

// Binning labels image columns by track phi and rows by pattern q/pT.
func (f *Finder) Binning() roads.Binning { return patternBins{phi: f.cfg.Phi, table: f.table} }

// patternBins labels image rows by pattern and columns by track phi.
type patternBins struct {
	phi   projection.Axis
	table *Table
}

func (b patternBins) NX() int { return b.phi.Bins }
func (b patternBins) NY() int { return b.table.Len() }
func (b patternBins) XCenter(x int) float64 { return b.phi.Center(x) }
func (b patternBins) YCenter(y int) float64 { return b.table.Patterns[y].QPt }

// HitMasks holds one phi bit vector per layer and the hits behind each bit.
type HitMasks struct {
	Bits []*bitset.BitSet
	refs [][][]hits.Ref
}

// HitsAt returns the hits of layer l in phi bin b.
func (m *HitMasks) HitsAt(l, b int) []hits.Ref {
	if l < 0 || l >= len(m.refs) || b < 0 || b >= len(m.refs[l]) {
		return nil
	}
	return m.refs[l][b]
}

// MakeHitMasks sets, for every hit, the bits of its phi bin widened by the
// layer's extension.
func (f *Finder) MakeHitMasks(arena *hits.Arena) *HitMasks {
	n, nb := f.cfg.NLayers, f.cfg.Phi.Bins
	m := &HitMasks{Bits: make([]*bitset.BitSet, n), refs: make([][][]hits.Ref, n)}
	for l := range m.Bits {
		m.Bits[l] = bitset.New(uint(nb))
		m.refs[l] = make([][]hits.Ref, nb)
	}
	for i := 0; i < arena.Len(); i++ {
		ref := hits.Ref(i)
		h := arena.At(ref)
		if h.Layer < 0 || h.Layer >= n {
			continue
		}
		pos := f.cfg.Phi.Pos(h.Phi)
		lo, hi := projection.FiredBins(pos, pos, f.ext.HalfWidth(h.Layer, 0), nb)
		for b := lo; b < hi; b++ {
			m.Bits[h.Layer].Set(uint(b))
			m.refs[h.Layer][b] = append(m.refs[h.Layer][b], ref)
		}
	}
	for l, bs := range m.Bits {
		tracef("layer %d: %d phi bits set", l, bs.Count())
	}
	return m
}

// BuildImage votes the shifted hit masks into a pattern by track phi
// image. For every pattern each layer's vector is shifted by the
// pattern's shift for that layer; the union of the shifted vectors marks
// the columns to count, and each column's count is the number of layers
// whose shifted bit is set there. Each layer is its own vote group.
func (f *Finder) BuildImage(m *HitMasks) *accumulator.Image {
	nx := uint(f.cfg.Phi.Bins)
	im := accumulator.NewImage(int(nx), f.table.Len(), f.cfg.TraceHits)
	shifted := make([]*bitset.BitSet, len(m.Bits))
	for l := range shifted {
		shifted[l] = bitset.New(nx)
	}
	occupied := bitset.New(nx)
	for y, p := range f.table.Patterns {
		occupied.ClearAll()
		for l, bs := range m.Bits {
			shiftWords(shifted[l].Bytes(), bs.Bytes(), p.Shifts[l], nx)
			occupied.InPlaceUnion(shifted[l])
		}
		for x, ok := occupied.NextSet(0); ok; x, ok = occupied.NextSet(x + 1) {
			for l, bs := range shifted {
				if !bs.Test(x) {
					continue
				}
				for _, ref := range m.refs[l][int(x)-p.Shifts[l]] {
					im.AddVote(int(x), y, l, ref)
				}
			}
		}
	}
	return im
}

// shiftWords writes the n-bit vector src moved by s bits into dst, which
// has the same number of words. Positive s moves bits towards higher
// indices. Bits pushed past either end are dropped.
func shiftWords(dst, src []uint64, s int, n uint) {
	clear(dst)
	w := len(src)
	if s >= 0 {
		q, r := s/64, uint(s%64)
		for i := w - 1; i >= q; i-- {
			v := src[i-q] << r
			if r > 0 && i-q-1 >= 0 {
				v |= src[i-q-1] >> (64 - r)
			}
			dst[i] = v
		}
	} else {
		q, r := -s/64, uint(-s%64)
		for i := 0; i+q < w; i++ {
			v := src[i+q] >> r
			if r > 0 && i+q+1 < w {
				v |= src[i+q+1] << (64 - r)
			}
			dst[i] = v
		}
	}
	if tail := n % 64; tail != 0 && w > 0 {
		dst[w-1] &= 1<<tail - 1
	}
}

// FindRoads implements roads.Finder.
func (f *Finder) FindRoads(buf *roads.Buffer, arena *hits.Arena) ([]roads.Road, error) {
	buf.Reset()
	m := f.MakeHitMasks(arena)
	im := f.BuildImage(m)
	buf.SetImage(im)

	var src roads.HitSource
	if !f.cfg.TraceHits {
		src = func(x, y int) []hits.Ref {
			var out []hits.Ref
			for l, s := range f.table.Patterns[y].Shifts {
				out = append(out, m.HitsAt(l, x-s)...)
			}
			return out
		}
	}
	rs := f.extractor.Extract(buf, im, arena, src)
	for i := range rs {
		rs[i].D0 = f.table.Patterns[rs[i].YBin].D0
	}
	diagf("sub_region=%d: %d hits, %d patterns, max count %d, %d roads",
		f.cfg.SubRegion, arena.Len(), f.table.Len(), im.MaxCount(), len(rs))
	return buf.Roads(), nil
}

// accept applies the droppable-layer rule to N-1 matches and the optional
// phi range cut.
func (f *Finder) accept(im *accumulator.Image, x, y int) bool {
	p := f.table.Patterns[y]
	missing := im.At(x, y).Groups.Missing(f.cfg.NLayers)
	if missing.Count() == 1 && missing.Intersect(p.Droppable) == 0 {
		tracef("pattern %d bin %d: layer %s not droppable", y, x, missing)
		return false
	}
	if f.cfg.PhiRangeCut {
		phi := f.cfg.Phi.Center(x)
		if phi < f.cfg.RegionPhiMin || phi > f.cfg.RegionPhiMax {
			return false
		}
	}
	return true
}
