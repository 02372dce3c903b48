package doublet

import (
	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
	"github.com/banshee-data/houghroads/internal/hough/roads"
)

const component = "doublet"

// Config describes one displaced-track transform.
type Config struct {
	NLayers int
	// Grid is d0 in mm on x and q/pT on y.
	Grid projection.Grid
	// MinDR and MaxDR bound the radial gap of a pair, inclusive, in mm.
	MinDR, MaxDR float64
	Triplet      bool
	Continuous   bool
	// Threshold applies where |d0| >= InnerD0 and ThresholdInner inside.
	Threshold      int
	ThresholdInner int
	InnerD0        float64
	LocalMaxWindow int
	TraceHits      bool
	Sectors        *roads.SectorMap
	SubRegion      int
}

// DefaultConfig is the 216x216 image over |d0| < 120 mm and
// |q/pT| < 2 e/GeV.
func DefaultConfig(nLayers int) Config {
	return Config{
		NLayers: nLayers,
		Grid: projection.Grid{
			X: projection.MustAxis(-120, 120, 216),
			Y: projection.MustAxis(-2, 2, 216),
		},
		MinDR:          200,
		MaxDR:          600,
		Continuous:     true,
		Threshold:      8,
		ThresholdInner: 8,
		InnerD0:        50,
		LocalMaxWindow: 1,
		TraceHits:      true,
	}
}

// Thresholds is the extractor threshold the configuration implies.
func (c Config) Thresholds() roads.Thresholds {
	t := roads.Single(c.Threshold)
	if c.InnerD0 > 0 {
		t.Bands = []roads.Band{{Axis: roads.BandX, Lo: -c.InnerD0, Hi: c.InnerD0, Min: c.ThresholdInner}}
	}
	return t
}

// Validate checks c on its own.
func (c Config) Validate() error {
	if c.NLayers <= 0 || c.NLayers > hits.MaxLayers {
		return errs.Invalid(component, "layers", "need 1 to %d layers, got %d", hits.MaxLayers, c.NLayers)
	}
	if c.Grid.NX() <= 0 || c.Grid.NY() <= 0 {
		return errs.Invalid(component, "image_size", "need positive bin counts, got %dx%d", c.Grid.NX(), c.Grid.NY())
	}
	if c.Grid.NY()%2 != 0 {
		return errs.Invalid(component, "image_size", "q/pT bins must be even so no row sits at q/pT = 0, got %d", c.Grid.NY())
	}
	if c.MinDR < 0 || !(c.MaxDR >= c.MinDR) {
		return errs.Invalid(component, "dr_window", "need 0 <= min <= max, got [%v, %v]", c.MinDR, c.MaxDR)
	}
	if c.Threshold <= 0 || c.ThresholdInner <= 0 {
		return errs.Invalid(component, "threshold", "thresholds must be positive, got %d and %d", c.Threshold, c.ThresholdInner)
	}
	if c.InnerD0 < 0 {
		return errs.Invalid(component, "inner_d0", "must be non-negative, got %v", c.InnerD0)
	}
	return nil
}

// Finder implements roads.Finder for displaced tracks.
type Finder struct {
	cfg       Config
	voter     *Voter
	extractor *roads.Extractor
}

// New validates cfg and builds the finder.
func New(cfg Config) (*Finder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ex, err := roads.NewExtractor(roads.ExtractorConfig{
		Source:         component,
		NLayers:        cfg.NLayers,
		Thresholds:     cfg.Thresholds(),
		LocalMaxWindow: cfg.LocalMaxWindow,
		TraceHits:      cfg.TraceHits,
		Sectors:        cfg.Sectors,
		SubRegion:      cfg.SubRegion,
	}, cfg.Grid)
	if err != nil {
		return nil, err
	}
	return &Finder{cfg: cfg, voter: NewVoter(cfg), extractor: ex}, nil
}

// Config returns the configuration the finder was built from.
func (f *Finder) Config() Config { return f.cfg }

// Voter returns the pair voter.
func (f *Finder) Voter() *Voter { return f.voter }

// Binning labels the image axes in d0 and q/pT.
func (f *Finder) Binning() roads.Binning { return f.cfg.Grid }

// BuildImage votes every accepted pair and returns the image with the
// number of pairs that voted. A cell counts the distinct layers whose
// hits took part in a pair through it.
func (f *Finder) BuildImage(arena *hits.Arena) (*accumulator.Image, int) {
	im := accumulator.NewImage(f.cfg.Grid.NX(), f.cfg.Grid.NY(), f.cfg.TraceHits)
	n := f.voter.Pairs(arena, func(ra, rb hits.Ref) {
		a, b := arena.At(ra), arena.At(rb)
		f.voter.PairBins(a, b, func(x, y int) {
			im.AddVote(x, y, a.Layer, ra)
			im.AddVote(x, y, b.Layer, rb)
		})
	})
	return im, n
}

// HitsAt returns the hits of every pair voting for (x, y). It recovers
// road hits when tracing is off.
func (f *Finder) HitsAt(arena *hits.Arena, x, y int) []hits.Ref {
	var set accumulator.HitSet
	f.voter.Pairs(arena, func(ra, rb hits.Ref) {
		f.voter.PairBins(arena.At(ra), arena.At(rb), func(xi, yi int) {
			if xi == x && yi == y {
				set = set.Add(ra).Add(rb)
			}
		})
	})
	return set
}

// FindRoads implements roads.Finder. Road D0 is the d0 bin centre.
func (f *Finder) FindRoads(buf *roads.Buffer, arena *hits.Arena) ([]roads.Road, error) {
	buf.Reset()
	byLayer := arena.ByLayer(f.cfg.NLayers)
	kept := 0
	for _, refs := range byLayer {
		kept += len(refs)
	}
	if kept != arena.Len() {
		opsf("%d of %d hits are outside the %d configured layers", arena.Len()-kept, arena.Len(), f.cfg.NLayers)
	}

	im, pairs := f.BuildImage(arena)
	buf.SetImage(im)

	var src roads.HitSource
	if !f.cfg.TraceHits {
		src = func(x, y int) []hits.Ref { return f.HitsAt(arena, x, y) }
	}
	rs := f.extractor.Extract(buf, im, arena, src)
	for i := range rs {
		rs[i].D0 = rs[i].X
	}
	diagf("%d hits, %d pairs voted, max count %d, %d roads", arena.Len(), pairs, im.MaxCount(), len(rs))
	return buf.Roads(), nil
}
