package shift

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
)

// DefaultRadii are the strip barrel layer radii in mm.
var DefaultRadii = []float64{396.7, 402.7, 559.5, 565.6, 759.5, 765.7, 997.1, 1003.4}

// Pattern is one curvature step: the bin shift that moves each layer's hit
// phi onto the track phi.
type Pattern struct {
	// Shifts has one entry per layer; track bin = hit bin + Shifts[layer].
	Shifts []int
	// Droppable lists the layers that may be the single missing layer of
	// an N-1 match at this pattern.
	Droppable hits.LayerMask
	// OuterShift is the shift of the outermost layer.
	OuterShift int
	QPt        float64
	D0         float64
}

// TableConfig describes how patterns are generated.
type TableConfig struct {
	// Radii has one entry per layer, in mm.
	Radii []float64
	// Step is the phi bin width in radians.
	Step           float64
	QPtMin, QPtMax float64
	// IterStep is the increment, in bins, of the outer layer shift (or of
	// the outer minus inner shift with UseDiff).
	IterStep int
	UseDiff  bool
	// D0Spread adds +/- D0Spread variations of every pattern when positive.
	D0Spread float64
}

// Table is the read-only pattern list of one shift finder.
type Table struct {
	Patterns []Pattern
	radii    []float64
	step     float64
	inner    int
	outer    int
}

func (c TableConfig) validate() error {
	n := len(c.Radii)
	if n == 0 || n > hits.MaxLayers {
		return errs.Invalid(component, "radii", "need 1 to %d radii, got %d", hits.MaxLayers, n)
	}
	for i, r := range c.Radii {
		if !(r > 0) || math.IsInf(r, 0) {
			return errs.Invalid(component, "radii", "radius %d must be positive, got %v", i, r)
		}
	}
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return errs.Invalid(component, "phi_bins", "bin width must be positive, got %v", c.Step)
	}
	if !(c.QPtMax > c.QPtMin) {
		return errs.Invalid(component, "qpt_range", "need qpt_min < qpt_max, got [%v, %v]", c.QPtMin, c.QPtMax)
	}
	if c.IterStep <= 0 {
		return errs.Invalid(component, "iter_step", "must be positive, got %d", c.IterStep)
	}
	if c.D0Spread < 0 || math.IsNaN(c.D0Spread) {
		return errs.Invalid(component, "d0_spread", "must be non-negative, got %v", c.D0Spread)
	}
	return nil
}

func newTable(radii []float64, step float64) *Table {
	t := &Table{radii: append([]float64(nil), radii...), step: step}
	for i, r := range radii {
		if r > radii[t.outer] {
			t.outer = i
		}
		if r < radii[t.inner] {
			t.inner = i
		}
	}
	return t
}

// BuildTable generates the patterns for cfg.
func BuildTable(cfg TableConfig) (*Table, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := newTable(cfg.Radii, cfg.Step)
	rOuter := t.radii[t.outer]
	if projection.A*rOuter*math.Max(math.Abs(cfg.QPtMin), math.Abs(cfg.QPtMax)) > 1 {
		return nil, errs.Invalid(component, "qpt_range", "q/pT range [%v, %v] curls up before radius %v", cfg.QPtMin, cfg.QPtMax, rOuter)
	}

	var qpts []float64
	if cfg.UseDiff {
		if t.inner == t.outer || t.radii[t.inner] == rOuter {
			return nil, errs.Invalid(component, "use_diff", "needs layers at two different radii")
		}
		lo := int(math.Ceil(t.diff(cfg.QPtMin) / cfg.Step))
		hi := int(math.Floor(t.diff(cfg.QPtMax) / cfg.Step))
		for d := lo; d <= hi; d += cfg.IterStep {
			qpts = append(qpts, t.qptForDiff(float64(d)*cfg.Step, cfg.QPtMin, cfg.QPtMax))
		}
	} else {
		lo := int(math.Ceil(math.Asin(projection.A*rOuter*cfg.QPtMin) / cfg.Step))
		hi := int(math.Floor(math.Asin(projection.A*rOuter*cfg.QPtMax) / cfg.Step))
		for k := lo; k <= hi; k += cfg.IterStep {
			qpts = append(qpts, math.Sin(float64(k)*cfg.Step)/(projection.A*rOuter))
		}
	}

	for _, q := range qpts {
		if q < cfg.QPtMin || q > cfg.QPtMax {
			continue
		}
		p := t.patternFor(q)
		if n := len(t.Patterns); n > 0 && equalShifts(t.Patterns[n-1].Shifts, p.Shifts) {
			continue
		}
		t.Patterns = append(t.Patterns, p)
	}
	if cfg.D0Spread > 0 {
		t.addD0Variations(cfg.D0Spread)
	}
	t.markDroppable()
	if len(t.Patterns) == 0 {
		return nil, errs.Invalid(component, "qpt_range", "no pattern fits [%v, %v]", cfg.QPtMin, cfg.QPtMax)
	}
	return t, nil
}

// TableFromShifts wraps a precomputed shift list. The q/pT of each pattern
// is recovered from its outer layer shift.
func TableFromShifts(shifts [][]int, radii []float64, step float64) (*Table, error) {
	if len(radii) == 0 || len(radii) > hits.MaxLayers {
		return nil, errs.Invalid(component, "radii", "need 1 to %d radii, got %d", hits.MaxLayers, len(radii))
	}
	if !(step > 0) {
		return nil, errs.Invalid(component, "phi_bins", "bin width must be positive, got %v", step)
	}
	if len(shifts) == 0 {
		return nil, errs.Invalid(component, "shifts", "empty shift table")
	}
	t := newTable(radii, step)
	for i, s := range shifts {
		if len(s) != len(radii) {
			return nil, errs.Invalid(component, "shifts", "row %d has %d shifts for %d layers", i, len(s), len(radii))
		}
		if i > 0 && equalShifts(shifts[i-1], s) {
			opsf("shift table rows %d and %d are identical", i-1, i)
		}
		outer := s[t.outer]
		t.Patterns = append(t.Patterns, Pattern{
			Shifts:     append([]int(nil), s...),
			OuterShift: outer,
			QPt:        math.Sin(float64(outer)*step) / (projection.A * radii[t.outer]),
		})
	}
	t.markDroppable()
	return t, nil
}

// ReadShifts parses a whitespace separated shift table, one pattern per
// line. Blank lines and lines starting with '#' are ignored.
func ReadShifts(r io.Reader) ([][]int, error) {
	var out [][]int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("shift table line %d: %w", line, err)
			}
			row[i] = v
		}
		if len(out) > 0 && len(row) != len(out[0]) {
			return nil, fmt.Errorf("shift table line %d: %d columns, want %d", line, len(row), len(out[0]))
		}
		out = append(out, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read shift table: %w", err)
	}
	return out, nil
}

// NLayers is the number of layers each pattern covers.
func (t *Table) NLayers() int { return len(t.radii) }

// Len is the number of patterns.
func (t *Table) Len() int { return len(t.Patterns) }

// Step is the phi bin width the shifts are expressed in.
func (t *Table) Step() float64 { return t.step }

// OuterLayer is the layer with the largest radius.
func (t *Table) OuterLayer() int { return t.outer }

// ShiftFor is the bin shift of a layer at radius r for curvature qpt.
func ShiftFor(r, qpt, step float64) int {
	return int(math.Round(math.Asin(projection.A*r*qpt) / step))
}

func (t *Table) patternFor(qpt float64) Pattern {
	p := Pattern{Shifts: make([]int, len(t.radii)), QPt: qpt}
	for i, r := range t.radii {
		p.Shifts[i] = ShiftFor(r, qpt, t.step)
	}
	p.OuterShift = p.Shifts[t.outer]
	return p
}

// diff is the phi difference, in radians, between the outer and inner
// layer for curvature qpt.
func (t *Table) diff(qpt float64) float64 {
	return math.Asin(projection.A*t.radii[t.outer]*qpt) - math.Asin(projection.A*t.radii[t.inner]*qpt)
}

// qptForDiff inverts diff by bisection; diff increases with q/pT.
func (t *Table) qptForDiff(target, lo, hi float64) float64 {
	for i := 0; i < 64; i++ {
		mid := (lo + hi) / 2
		if t.diff(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// D0Variation is the per-layer shift change for impact parameter d0 with
// the outer layer held fixed.
func (t *Table) D0Variation(d0 float64) []int {
	rOuter := t.radii[t.outer]
	v := make([]int, len(t.radii))
	for i, r := range t.radii {
		v[i] = int(math.Round((-d0/r + d0/rOuter) / t.step))
	}
	return v
}

func (t *Table) addD0Variations(spread float64) {
	v := t.D0Variation(spread)
	zero := true
	for _, s := range v {
		zero = zero && s == 0
	}
	if zero {
		diagf("d0 spread %g mm moves no layer by a full bin", spread)
		return
	}
	base := len(t.Patterns)
	for i := 0; i < base; i++ {
		for _, sign := range []int{1, -1} {
			p := Pattern{
				Shifts: make([]int, len(v)),
				QPt:    t.Patterns[i].QPt,
				D0:     float64(sign) * spread,
			}
			for j := range v {
				p.Shifts[j] = t.Patterns[i].Shifts[j] + sign*v[j]
			}
			p.OuterShift = p.Shifts[t.outer]
			t.Patterns = append(t.Patterns, p)
		}
	}
}

// markDroppable lets layer L be the missing layer of pattern i only when
// no earlier pattern matches i on every other layer, so an N-1 match is
// reported once.
func (t *Table) markDroppable() {
	n := len(t.radii)
	for i := range t.Patterns {
		p := &t.Patterns[i]
		p.Droppable = hits.FullMask(n)
		for l := 0; l < n; l++ {
			for k := 0; k < i; k++ {
				if equalExcept(t.Patterns[k].Shifts, p.Shifts, l) {
					p.Droppable = p.Droppable.Clear(l)
					break
				}
			}
		}
	}
}

func equalShifts(a, b []int) bool {
	return equalExcept(a, b, -1)
}

func equalExcept(a, b []int, skip int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if i != skip && a[i] != b[i] {
			return false
		}
	}
	return true
}
