package roads

import (
	"sort"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
)

// ExtractorConfig controls road extraction from a vote image.
type ExtractorConfig struct {
	// Source labels the roads and configuration errors.
	Source  string
	NLayers int
	// Thresholds is applied to the (possibly convolved) counts.
	Thresholds Thresholds
	// LocalMaxWindow is the half-width of the square neighbourhood a cell
	// must dominate; 0 disables the test. Requires TraceHits.
	LocalMaxWindow int
	// TraceHits takes road hits from the cell's hit set. When false they
	// come from the HitSource passed to Extract.
	TraceHits bool
	Sectors   *SectorMap
	SubRegion int
	// D0 is copied onto every road.
	D0 float64
	// Accept, when set, must approve every cell that passed the threshold.
	Accept CellFilter
}

// Validate checks the configuration on its own.
func (c ExtractorConfig) Validate() error {
	if c.NLayers <= 0 || c.NLayers > hits.MaxLayers {
		return errs.Invalid(c.Source, "layers", "need 1 to %d layers, got %d", hits.MaxLayers, c.NLayers)
	}
	if err := c.Thresholds.Validate(c.Source); err != nil {
		return err
	}
	if c.LocalMaxWindow < 0 {
		return errs.Invalid(c.Source, "local_max_window", "must be non-negative, got %d", c.LocalMaxWindow)
	}
	if c.LocalMaxWindow > 0 && !c.TraceHits {
		return errs.Invalid(c.Source, "local_max_window", "local maxima need trace_hits")
	}
	return nil
}

// CellFilter vetoes cells on criteria beyond the vote count.
type CellFilter func(im *accumulator.Image, x, y int) bool

// HitSource supplies the hits of cell (x, y) when the image was built
// without hit tracing.
type HitSource func(x, y int) []hits.Ref

// Extractor scans an image and emits a road for every accepted cell.
type Extractor struct {
	cfg  ExtractorConfig
	bins Binning
}

// NewExtractor validates cfg against the image binning.
func NewExtractor(cfg ExtractorConfig, bins Binning) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bins == nil || bins.NX() <= 0 || bins.NY() <= 0 {
		return nil, errs.Invalid(cfg.Source, "bins", "image needs positive extent")
	}
	return &Extractor{cfg: cfg, bins: bins}, nil
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() ExtractorConfig { return e.cfg }

// Extract scans im in y-major order and emits accepted cells into buf.
// Cells go through the threshold, the Accept filter and the local maximum
// test in that order.
// It returns the roads emitted by this call.
func (e *Extractor) Extract(buf *Buffer, im *accumulator.Image, arena *hits.Arena, untraced HitSource) []Road {
	start := buf.Len()
	passed := 0
	for y := 0; y < im.NY(); y++ {
		for x := 0; x < im.NX(); x++ {
			if !e.cfg.Thresholds.Pass(im, e.bins, x, y) {
				continue
			}
			if e.cfg.Accept != nil && !e.cfg.Accept(im, x, y) {
				continue
			}
			passed++
			if e.cfg.LocalMaxWindow > 0 && !IsLocalMax(im, x, y, e.cfg.LocalMaxWindow) {
				continue
			}
			var refs []hits.Ref
			switch {
			case e.cfg.TraceHits:
				refs = im.At(x, y).Hits
			case untraced != nil:
				refs = untraced(x, y)
			}
			r := buf.Emit(e.Materialize(arena, refs, x, y))
			tracef("%s road %d at (%d,%d) count=%d layers=%s", e.cfg.Source, r.ID, x, y, im.Count(x, y), r.HitLayers)
		}
	}
	diagf("%s: %d cells passed threshold, %d roads", e.cfg.Source, passed, buf.Len()-start)
	return buf.Roads()[start:]
}

// Materialize builds the road for cell (x, y) from refs, without an ID.
// Only real hits set HitLayers. Wildcard and guessed hits are kept in Hits
// and mark their layer as a wildcard unless a real hit covers it.
func (e *Extractor) Materialize(arena *hits.Arena, refs []hits.Ref, x, y int) Road {
	n := e.cfg.NLayers
	r := Road{
		PatternID: y*e.bins.NX() + x,
		XBin:      x,
		YBin:      y,
		X:         e.bins.XCenter(x),
		Y:         e.bins.YCenter(y),
		Hits:      make([][]hits.Ref, n),
		D0:        e.cfg.D0,
		Sector:    -1,
		SubRegion: e.cfg.SubRegion,
		Source:    e.cfg.Source,
	}
	var wild hits.LayerMask
	for _, ref := range refs {
		h := arena.At(ref)
		if h.Layer < 0 || h.Layer >= n {
			continue
		}
		r.Hits[h.Layer] = append(r.Hits[h.Layer], ref)
		if h.IsReal() {
			r.HitLayers = r.HitLayers.Set(h.Layer)
		} else {
			wild = wild.Set(h.Layer)
		}
	}
	for _, l := range r.Hits {
		sort.Slice(l, func(i, j int) bool { return l[i] < l[j] })
	}
	r.WildcardLayers = wild &^ r.HitLayers
	if s := e.cfg.Sectors; s != nil {
		r.Sector = s.Sector(r.Y)
		if s.FillWildcards {
			r.WildcardLayers = r.WildcardLayers.Union(r.HitLayers.Missing(n))
		}
	}
	return r
}

// IsLocalMax reports whether no cell within half-width w of (x, y)
// dominates it. A neighbour dominates with a larger count; on equal counts
// with a larger hit set; and on equal hit sets when it lies at or below
// and at or left of the cell, so a flat plateau yields its lower-left
// corner.
func IsLocalMax(im *accumulator.Image, x, y, w int) bool {
	c := im.At(x, y)
	for j := -w; j <= w; j++ {
		for i := -w; i <= w; i++ {
			if i == 0 && j == 0 {
				continue
			}
			if !im.InBounds(x+i, y+j) {
				continue
			}
			n := im.At(x+i, y+j)
			if n.Count > c.Count {
				return false
			}
			if n.Count < c.Count {
				continue
			}
			if n.Hits.Len() > c.Hits.Len() {
				return false
			}
			if n.Hits.Len() == c.Hits.Len() && j <= 0 && i <= 0 {
				return false
			}
		}
	}
	return true
}
