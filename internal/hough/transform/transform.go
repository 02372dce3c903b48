package transform

import (
	"fmt"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
	"github.com/banshee-data/houghroads/internal/hough/roads"
)

const component = "hough"

// Config describes one standard transform. Several transforms covering
// different impact parameters or sub-regions can be combined in a
// roads.Union.
type Config struct {
	NLayers int
	// Grid is phi_track on x and q/pT on y.
	Grid projection.Grid
	// D0 is the impact parameter assumed for every hit, in mm.
	D0        float64
	Region    int
	SubRegion int
	// FieldCorrection enables Field (or the default coefficients when
	// Field is nil).
	FieldCorrection bool
	Field           projection.FieldCorrection

	// HitExtend has NLayers entries, or 2*NLayers for separate low and
	// high pT widths.
	HitExtend []float64
	// CombineLayers maps each layer to a vote group; CombineLayers2D lists
	// group members instead. With neither, every layer votes alone.
	CombineLayers   []int
	CombineLayers2D [][]int
	// BinScale has one y coarsening factor per group, or is empty.
	BinScale []int

	// Kernel smooths the image before extraction when non-empty.
	Kernel         accumulator.Kernel
	Thresholds     roads.Thresholds
	LocalMaxWindow int
	TraceHits      bool
	Sectors        *roads.SectorMap
	// Verify checks the raw image of every event for double counting.
	Verify bool
}

// Finder implements roads.Finder.
type Finder struct {
	cfg       Config
	proj      projection.Projector
	groups    accumulator.LayerGroups
	extractor *roads.Extractor
}

// New validates cfg and derives the read-only tables.
func New(cfg Config) (*Finder, error) {
	if cfg.NLayers <= 0 || cfg.NLayers > hits.MaxLayers {
		return nil, errs.Invalid(component, "layers", "need 1 to %d layers, got %d", hits.MaxLayers, cfg.NLayers)
	}
	if cfg.Grid.NX() <= 0 || cfg.Grid.NY() <= 0 {
		return nil, errs.Invalid(component, "image_size", "need positive bin counts, got %dx%d", cfg.Grid.NX(), cfg.Grid.NY())
	}
	ext, err := projection.NewExtension(cfg.HitExtend, cfg.NLayers, cfg.Grid.NY())
	if err != nil {
		return nil, err
	}
	groups, err := buildGroups(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.Kernel.Empty() {
		if _, err := accumulator.NewKernel(cfg.Kernel.Width, cfg.Kernel.Height, cfg.Kernel.Weights); err != nil {
			return nil, err
		}
	}
	var field projection.FieldCorrection
	if cfg.FieldCorrection {
		field = cfg.Field
		if field == nil {
			field = projection.DefaultFieldCorrection()
		}
	}
	ex, err := roads.NewExtractor(roads.ExtractorConfig{
		Source:         component,
		NLayers:        cfg.NLayers,
		Thresholds:     cfg.Thresholds,
		LocalMaxWindow: cfg.LocalMaxWindow,
		TraceHits:      cfg.TraceHits,
		Sectors:        cfg.Sectors,
		SubRegion:      cfg.SubRegion,
		D0:             cfg.D0,
	}, cfg.Grid)
	if err != nil {
		return nil, err
	}
	return &Finder{
		cfg: cfg,
		proj: projection.Projector{
			Grid:      cfg.Grid,
			D0:        cfg.D0,
			Region:    cfg.Region,
			Field:     field,
			Extension: ext,
		},
		groups:    groups,
		extractor: ex,
	}, nil
}

func buildGroups(cfg Config) (accumulator.LayerGroups, error) {
	var (
		g   accumulator.LayerGroups
		err error
	)
	switch {
	case len(cfg.CombineLayers2D) > 0:
		g, err = accumulator.ExplicitGroups(cfg.CombineLayers2D, cfg.NLayers)
	case len(cfg.CombineLayers) > 0:
		if len(cfg.CombineLayers) != cfg.NLayers {
			return g, errs.Invalid(component, "combine_layers", "need %d entries, got %d", cfg.NLayers, len(cfg.CombineLayers))
		}
		g, err = accumulator.FlatGroups(cfg.CombineLayers)
	default:
		g = accumulator.IdentityGroups(cfg.NLayers)
	}
	if err != nil || len(cfg.BinScale) == 0 {
		return g, err
	}
	return g.WithScale(cfg.BinScale)
}

// Config returns the configuration the finder was built from.
func (f *Finder) Config() Config { return f.cfg }

// Projector exposes the hit projection used for voting.
func (f *Finder) Projector() *projection.Projector { return &f.proj }

// Binning labels the image axes in phi and q/pT.
func (f *Finder) Binning() roads.Binning { return f.cfg.Grid }

// Groups returns the layer combination in use.
func (f *Finder) Groups() accumulator.LayerGroups { return f.groups }

// FindRoads implements roads.Finder.
func (f *Finder) FindRoads(buf *roads.Buffer, arena *hits.Arena) ([]roads.Road, error) {
	buf.Reset()
	raw := f.BuildImage(arena)
	if f.cfg.Verify {
		if err := accumulator.CheckConsistency(raw, f.groups.NGroups()); err != nil {
			opsf("consistency check failed: %v", err)
			return nil, fmt.Errorf("hough d0=%g: %w", f.cfg.D0, err)
		}
	}
	im := raw
	if !f.cfg.Kernel.Empty() {
		im = accumulator.Convolve(raw, f.cfg.Kernel)
	}
	buf.SetImage(im)

	var src roads.HitSource
	if !f.cfg.TraceHits {
		src = func(x, y int) []hits.Ref { return f.HitsAt(arena, x, y) }
	}
	rs := f.extractor.Extract(buf, im, arena, src)
	diagf("d0=%g sub_region=%d: %d hits, max count %d, %d roads",
		f.cfg.D0, f.cfg.SubRegion, arena.Len(), im.MaxCount(), len(rs))
	return buf.Roads(), nil
}

// BuildImage fills a fresh image with the votes of every hit. Each group
// votes once per cell; a group with bin scale s projects each hit over s
// y bins at a time and fills all of them.
func (f *Finder) BuildImage(arena *hits.Arena) *accumulator.Image {
	nx, ny := f.cfg.Grid.NX(), f.cfg.Grid.NY()
	im := accumulator.NewImage(nx, ny, f.cfg.TraceHits)
	byLayer := arena.ByLayer(f.cfg.NLayers)
	for g := 0; g < f.groups.NGroups(); g++ {
		scale := f.groups.Scale(g)
		n := 0
		for _, layer := range f.groups.Members(g) {
			for _, ref := range byLayer[layer] {
				f.voteHit(im, g, scale, ref, arena.At(ref))
				n++
			}
		}
		tracef("group %d (layers %v, scale %d): %d hits", g, f.groups.Members(g), scale, n)
	}
	return im
}

func (f *Finder) voteHit(im *accumulator.Image, group, scale int, ref hits.Ref, h hits.Hit) {
	ny := f.cfg.Grid.NY()
	for yb := 0; yb < ny; yb += scale {
		lo, hi := f.proj.XBins(yb, yb+scale, h)
		if lo >= hi {
			continue
		}
		yEnd := yb + scale
		if yEnd > ny {
			yEnd = ny
		}
		for y := yb; y < yEnd; y++ {
			for x := lo; x < hi; x++ {
				im.AddVote(x, y, group, ref)
			}
		}
	}
}

// HitsAt re-projects every hit and returns those whose fired range at
// row y covers column x. It recovers road hits when tracing is off.
func (f *Finder) HitsAt(arena *hits.Arena, x, y int) []hits.Ref {
	var out []hits.Ref
	for i := 0; i < arena.Len(); i++ {
		ref := hits.Ref(i)
		h := arena.At(ref)
		g := f.groups.Group(h.Layer)
		if g < 0 {
			continue
		}
		yLo, yHi := projection.ScaledYBand(y, f.groups.Scale(g))
		lo, hi := f.proj.XBins(yLo, yHi, h)
		if x >= lo && x < hi {
			out = append(out, ref)
		}
	}
	return out
}
