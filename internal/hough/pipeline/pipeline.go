package pipeline

import (
	"fmt"
	"os"

	"github.com/banshee-data/houghroads/internal/config"
	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/diagnostics"
	"github.com/banshee-data/houghroads/internal/hough/doublet"
	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
	"github.com/banshee-data/houghroads/internal/hough/roads"
	"github.com/banshee-data/houghroads/internal/hough/shift"
	"github.com/banshee-data/houghroads/internal/hough/transform"
)

// Stage is one member of the pipeline union.
type Stage struct {
	Name   string
	Finder roads.Finder
	Bins   roads.Binning
	Labels diagnostics.Labels
}

// Pipeline runs every configured finder on the same hits.
type Pipeline struct {
	stages []Stage
	union  *roads.Union
}

// binned is implemented by every finder in this module.
type binned interface {
	roads.Finder
	Binning() roads.Binning
}

// SectorsFromTuning returns the sector map, or nil when no edges are set.
func SectorsFromTuning(cfg *config.TuningConfig) (*roads.SectorMap, error) {
	edges := cfg.Sectors.GetQPtEdges()
	if len(edges) == 0 {
		return nil, nil
	}
	return roads.NewSectorMap(edges, cfg.Sectors.GetFillWildcards())
}

func bandsFromTuning(bs []config.BandTuning) []roads.Band {
	var out []roads.Band
	for _, b := range bs {
		axis := roads.BandX
		if b.Axis == "y" {
			axis = roads.BandY
		}
		out = append(out, roads.Band{Axis: axis, Lo: b.Lo, Hi: b.Hi, Min: b.Min})
	}
	return out
}

// TransformConfigsFromTuning returns one standard transform per configured
// impact parameter and sub-region slice. Unsliced transforms take their
// field correction from the region and tag roads with sub-region -1.
// Sliced ones cover only their share of the phi axis and use the slice
// index for both.
func TransformConfigsFromTuning(cfg *config.TuningConfig, sectors *roads.SectorMap) ([]transform.Config, error) {
	h := cfg.Hough
	phi, err := projection.NewAxis(h.GetPhiMin(), h.GetPhiMax(), h.GetPhiBins())
	if err != nil {
		return nil, fmt.Errorf("hough phi axis: %w", err)
	}
	qpt, err := projection.NewAxis(h.GetQPtMin(), h.GetQPtMax(), h.GetQPtBins())
	if err != nil {
		return nil, fmt.Errorf("hough q/pT axis: %w", err)
	}
	var kernel accumulator.Kernel
	if w, ht, taps := h.GetKernel(); w > 0 || ht > 0 || len(taps) > 0 {
		if kernel, err = accumulator.NewKernel(w, ht, taps); err != nil {
			return nil, err
		}
	}
	ext := h.GetHitExtend()
	if len(ext) == 0 {
		ext = make([]float64, cfg.GetLayers())
	}

	base := transform.Config{
		NLayers:         cfg.GetLayers(),
		Grid:            projection.Grid{X: phi, Y: qpt},
		Region:          cfg.GetRegion(),
		SubRegion:       -1,
		FieldCorrection: h.GetFieldCorrection(),
		HitExtend:       ext,
		CombineLayers:   h.GetCombineLayers(),
		CombineLayers2D: h.GetCombineLayers2D(),
		BinScale:        h.GetBinScale(),
		Kernel:          kernel,
		Thresholds:      roads.Thresholds{Window: h.GetThreshold(), Bands: bandsFromTuning(h.GetThresholdBands())},
		LocalMaxWindow:  h.GetLocalMaxWindow(),
		TraceHits:       h.GetTraceHits(),
		Sectors:         sectors,
		Verify:          h.GetVerify(),
	}
	slices, err := phiSlices(phi, cfg.GetSubRegions())
	if err != nil {
		return nil, err
	}
	var out []transform.Config
	for _, d0 := range h.GetD0() {
		for s, axis := range slices {
			c := base
			c.D0 = d0
			if len(slices) > 1 {
				c.Grid.X = axis
				c.Region, c.SubRegion = s, s
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// phiSlices splits phi into n contiguous axes of phi.Bins/n bins each.
// Slice edges are the parent's bin edges, so every parent bin lands in
// exactly one slice.
func phiSlices(phi projection.Axis, n int) ([]projection.Axis, error) {
	if n <= 1 {
		return []projection.Axis{phi}, nil
	}
	if phi.Bins%n != 0 {
		return nil, errs.Invalid("hough", "sub_regions", "%d phi bins do not split into %d slices", phi.Bins, n)
	}
	k := phi.Bins / n
	out := make([]projection.Axis, n)
	for s := range out {
		a, err := projection.NewAxis(phi.Edge(s*k), phi.Edge((s+1)*k), k)
		if err != nil {
			return nil, fmt.Errorf("hough phi slice %d: %w", s, err)
		}
		out[s] = a
	}
	return out, nil
}

// ShiftConfigFromTuning builds the bit-shift finder configuration, reading
// the precomputed shift table when one is named.
func ShiftConfigFromTuning(cfg *config.TuningConfig, sectors *roads.SectorMap) (shift.Config, error) {
	s := cfg.Shift
	phi, err := projection.NewAxis(s.GetPhiMin(), s.GetPhiMax(), s.GetPhiBins())
	if err != nil {
		return shift.Config{}, fmt.Errorf("shift phi axis: %w", err)
	}
	lo, hi := s.GetRegionPhi()
	out := shift.Config{
		NLayers: cfg.GetLayers(),
		Phi:     phi,
		Table: shift.TableConfig{
			Radii:    s.GetRadii(),
			QPtMin:   s.GetQPtMin(),
			QPtMax:   s.GetQPtMax(),
			IterStep: s.GetIterStep(),
			UseDiff:  s.GetUseDiff(),
			D0Spread: s.GetD0Spread(),
		},
		HitExtend:      s.GetHitExtend(),
		Thresholds:     roads.Thresholds{Window: s.GetThreshold()},
		LocalMaxWindow: s.GetLocalMaxWindow(),
		TraceHits:      s.GetTraceHits(),
		PhiRangeCut:    s.GetPhiRangeCut(),
		RegionPhiMin:   lo,
		RegionPhiMax:   hi,
		SubRegion:      -1,
		Sectors:        sectors,
	}
	if path := s.GetShiftsFile(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return shift.Config{}, fmt.Errorf("open shift table: %w", err)
		}
		defer f.Close()
		if out.Shifts, err = shift.ReadShifts(f); err != nil {
			return shift.Config{}, err
		}
	}
	return out, nil
}

// DoubletConfigFromTuning builds the hit-pair finder configuration.
func DoubletConfigFromTuning(cfg *config.TuningConfig, sectors *roads.SectorMap) (doublet.Config, error) {
	d := cfg.Doublet
	d0, err := projection.NewAxis(d.GetD0Min(), d.GetD0Max(), d.GetD0Bins())
	if err != nil {
		return doublet.Config{}, fmt.Errorf("doublet d0 axis: %w", err)
	}
	qpt, err := projection.NewAxis(d.GetQPtMin(), d.GetQPtMax(), d.GetQPtBins())
	if err != nil {
		return doublet.Config{}, fmt.Errorf("doublet q/pT axis: %w", err)
	}
	return doublet.Config{
		NLayers:        cfg.GetLayers(),
		Grid:           projection.Grid{X: d0, Y: qpt},
		MinDR:          d.GetMinDR(),
		MaxDR:          d.GetMaxDR(),
		Triplet:        d.GetTriplet(),
		Continuous:     d.GetContinuous(),
		Threshold:      d.GetThreshold(),
		ThresholdInner: d.GetThresholdInner(),
		InnerD0:        d.GetInnerD0(),
		LocalMaxWindow: d.GetLocalMaxWindow(),
		TraceHits:      d.GetTraceHits(),
		Sectors:        sectors,
		SubRegion:      -1,
	}, nil
}

// Build constructs every finder named in cfg, in the order listed.
func Build(cfg *config.TuningConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sectors, err := SectorsFromTuning(cfg)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{}
	add := func(name string, f binned, labels diagnostics.Labels) {
		labels.Title = name
		p.stages = append(p.stages, Stage{Name: name, Finder: f, Bins: f.Binning(), Labels: labels})
	}
	for _, name := range cfg.GetFinders() {
		switch name {
		case config.FinderHough:
			tcs, err := TransformConfigsFromTuning(cfg, sectors)
			if err != nil {
				return nil, err
			}
			for i, tc := range tcs {
				f, err := transform.New(tc)
				if err != nil {
					return nil, fmt.Errorf("hough transform %d: %w", i, err)
				}
				stage := name
				if len(tcs) > 1 {
					stage = fmt.Sprintf("%s_%d", name, i)
				}
				add(stage, f, diagnostics.Labels{X: "phi (rad)", Y: "q/pT (e/GeV)"})
				opsf("%s: d0 %g mm, sub-region %d, %dx%d image", stage, tc.D0, tc.SubRegion, tc.Grid.NX(), tc.Grid.NY())
			}
		case config.FinderShift:
			sc, err := ShiftConfigFromTuning(cfg, sectors)
			if err != nil {
				return nil, err
			}
			f, err := shift.New(sc)
			if err != nil {
				return nil, fmt.Errorf("shift finder: %w", err)
			}
			add(name, f, diagnostics.Labels{X: "phi (rad)", Y: "pattern q/pT (e/GeV)"})
			opsf("%s: %d patterns over %d phi bins", name, f.Table().Len(), sc.Phi.Bins)
		case config.FinderDoublet:
			dc, err := DoubletConfigFromTuning(cfg, sectors)
			if err != nil {
				return nil, err
			}
			f, err := doublet.New(dc)
			if err != nil {
				return nil, fmt.Errorf("doublet finder: %w", err)
			}
			add(name, f, diagnostics.Labels{X: "d0 (mm)", Y: "q/pT (e/GeV)"})
			opsf("%s: %dx%d image, dr [%g, %g] mm, triplet %v", name, dc.Grid.NX(), dc.Grid.NY(), dc.MinDR, dc.MaxDR, dc.Triplet)
		}
	}

	finders := make([]roads.Finder, len(p.stages))
	for i, s := range p.stages {
		finders[i] = s.Finder
	}
	if p.union, err = roads.NewUnion(finders...); err != nil {
		return nil, err
	}
	return p, nil
}

// Stages returns the union members in run order.
func (p *Pipeline) Stages() []Stage { return p.stages }

// FindRoads implements roads.Finder. Stage i leaves its image and roads
// in buf.Child(i).
func (p *Pipeline) FindRoads(buf *roads.Buffer, arena *hits.Arena) ([]roads.Road, error) {
	rs, err := p.union.FindRoads(buf, arena)
	if err != nil {
		return nil, err
	}
	diagf("%d hits, %d roads from %d stages", arena.Len(), len(rs), len(p.stages))
	return rs, nil
}

// Frames pairs every stage with the image and roads it left in buf after
// the last FindRoads call.
func (p *Pipeline) Frames(buf *roads.Buffer) []diagnostics.Frame {
	children := buf.Children()
	frames := make([]diagnostics.Frame, 0, len(p.stages))
	for i, s := range p.stages {
		if i >= len(children) {
			break
		}
		child := children[i]
		frames = append(frames, diagnostics.Frame{
			Name:   s.Name,
			Buffer: child,
			Bins:   s.Bins,
			Roads:  child.Roads(),
			Labels: s.Labels,
		})
	}
	return frames
}
