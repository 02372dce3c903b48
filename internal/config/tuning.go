package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	shipped "github.com/banshee-data/houghroads/config"
)

// DefaultConfigPath is the repository path of the canonical tuning
// defaults file. The binary carries a copy, see LoadDefaultConfig.
const DefaultConfigPath = "config/tuning.defaults.json"

// Finder names accepted in the finders list.
const (
	FinderHough   = "hough"
	FinderShift   = "shift"
	FinderDoublet = "doublet"
)

// TuningConfig is the root configuration of a road finding run. Every
// field is optional; the Get* methods supply defaults for omitted ones.
type TuningConfig struct {
	// Layers is the number of logical layers every finder works on.
	Layers *int `json:"layers,omitempty" yaml:"layers,omitempty"`
	// Region selects the field correction coefficients.
	Region *int `json:"region,omitempty" yaml:"region,omitempty"`
	// SubRegions splits the standard transform's phi axis into this many
	// equal slices, each with its own transform tagging roads with the
	// slice index. hough.phi_bins must divide evenly.
	SubRegions *int     `json:"sub_regions,omitempty" yaml:"sub_regions,omitempty"`
	Finders    []string `json:"finders,omitempty" yaml:"finders,omitempty"`

	Hough   *HoughTuning   `json:"hough,omitempty" yaml:"hough,omitempty"`
	Shift   *ShiftTuning   `json:"shift,omitempty" yaml:"shift,omitempty"`
	Doublet *DoubletTuning `json:"doublet,omitempty" yaml:"doublet,omitempty"`
	Sectors *SectorTuning  `json:"sectors,omitempty" yaml:"sectors,omitempty"`
}

// BandTuning overrides the threshold inside an open parameter range.
type BandTuning struct {
	// Axis is "x" or "y".
	Axis string  `json:"axis" yaml:"axis"`
	Lo   float64 `json:"lo" yaml:"lo"`
	Hi   float64 `json:"hi" yaml:"hi"`
	Min  int     `json:"min" yaml:"min"`
}

// HoughTuning configures the standard phi / q/pT transform.
type HoughTuning struct {
	PhiMin  *float64 `json:"phi_min,omitempty" yaml:"phi_min,omitempty"`
	PhiMax  *float64 `json:"phi_max,omitempty" yaml:"phi_max,omitempty"`
	PhiBins *int     `json:"phi_bins,omitempty" yaml:"phi_bins,omitempty"`
	QPtMin  *float64 `json:"qpt_min,omitempty" yaml:"qpt_min,omitempty"`
	QPtMax  *float64 `json:"qpt_max,omitempty" yaml:"qpt_max,omitempty"`
	QPtBins *int     `json:"qpt_bins,omitempty" yaml:"qpt_bins,omitempty"`
	// D0 lists impact parameters in mm; each gets its own transform.
	D0              []float64 `json:"d0,omitempty" yaml:"d0,omitempty"`
	FieldCorrection *bool     `json:"field_correction,omitempty" yaml:"field_correction,omitempty"`
	HitExtend       []float64 `json:"hit_extend,omitempty" yaml:"hit_extend,omitempty"`
	CombineLayers   []int     `json:"combine_layers,omitempty" yaml:"combine_layers,omitempty"`
	CombineLayers2D [][]int   `json:"combine_layers_2d,omitempty" yaml:"combine_layers_2d,omitempty"`
	BinScale        []int     `json:"bin_scale,omitempty" yaml:"bin_scale,omitempty"`
	// Kernel is row-major, KernelHeight rows of KernelWidth taps.
	KernelWidth    *int         `json:"kernel_width,omitempty" yaml:"kernel_width,omitempty"`
	KernelHeight   *int         `json:"kernel_height,omitempty" yaml:"kernel_height,omitempty"`
	Kernel         []int        `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	Threshold      []int        `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	ThresholdBands []BandTuning `json:"threshold_bands,omitempty" yaml:"threshold_bands,omitempty"`
	LocalMaxWindow *int         `json:"local_max_window,omitempty" yaml:"local_max_window,omitempty"`
	TraceHits      *bool        `json:"trace_hits,omitempty" yaml:"trace_hits,omitempty"`
	Verify         *bool        `json:"verify,omitempty" yaml:"verify,omitempty"`
}

// ShiftTuning configures the bit-shift transform.
type ShiftTuning struct {
	PhiMin   *float64  `json:"phi_min,omitempty" yaml:"phi_min,omitempty"`
	PhiMax   *float64  `json:"phi_max,omitempty" yaml:"phi_max,omitempty"`
	PhiBins  *int      `json:"phi_bins,omitempty" yaml:"phi_bins,omitempty"`
	QPtMin   *float64  `json:"qpt_min,omitempty" yaml:"qpt_min,omitempty"`
	QPtMax   *float64  `json:"qpt_max,omitempty" yaml:"qpt_max,omitempty"`
	Radii    []float64 `json:"radii,omitempty" yaml:"radii,omitempty"`
	IterStep *int      `json:"iter_step,omitempty" yaml:"iter_step,omitempty"`
	UseDiff  *bool     `json:"use_diff,omitempty" yaml:"use_diff,omitempty"`
	D0Spread *float64  `json:"d0_spread,omitempty" yaml:"d0_spread,omitempty"`
	// ShiftsFile replaces the generated patterns with a precomputed table.
	ShiftsFile     *string   `json:"shifts_file,omitempty" yaml:"shifts_file,omitempty"`
	HitExtend      []float64 `json:"hit_extend,omitempty" yaml:"hit_extend,omitempty"`
	Threshold      []int     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	LocalMaxWindow *int      `json:"local_max_window,omitempty" yaml:"local_max_window,omitempty"`
	TraceHits      *bool     `json:"trace_hits,omitempty" yaml:"trace_hits,omitempty"`
	PhiRangeCut    *bool     `json:"phi_range_cut,omitempty" yaml:"phi_range_cut,omitempty"`
	RegionPhiMin   *float64  `json:"region_phi_min,omitempty" yaml:"region_phi_min,omitempty"`
	RegionPhiMax   *float64  `json:"region_phi_max,omitempty" yaml:"region_phi_max,omitempty"`
}

// DoubletTuning configures the hit-pair d0 / q/pT transform.
type DoubletTuning struct {
	D0Min          *float64 `json:"d0_min,omitempty" yaml:"d0_min,omitempty"`
	D0Max          *float64 `json:"d0_max,omitempty" yaml:"d0_max,omitempty"`
	D0Bins         *int     `json:"d0_bins,omitempty" yaml:"d0_bins,omitempty"`
	QPtMin         *float64 `json:"qpt_min,omitempty" yaml:"qpt_min,omitempty"`
	QPtMax         *float64 `json:"qpt_max,omitempty" yaml:"qpt_max,omitempty"`
	QPtBins        *int     `json:"qpt_bins,omitempty" yaml:"qpt_bins,omitempty"`
	MinDR          *float64 `json:"min_dr,omitempty" yaml:"min_dr,omitempty"`
	MaxDR          *float64 `json:"max_dr,omitempty" yaml:"max_dr,omitempty"`
	Triplet        *bool    `json:"triplet,omitempty" yaml:"triplet,omitempty"`
	Continuous     *bool    `json:"continuous,omitempty" yaml:"continuous,omitempty"`
	Threshold      *int     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	ThresholdInner *int     `json:"threshold_inner,omitempty" yaml:"threshold_inner,omitempty"`
	InnerD0        *float64 `json:"inner_d0,omitempty" yaml:"inner_d0,omitempty"`
	LocalMaxWindow *int     `json:"local_max_window,omitempty" yaml:"local_max_window,omitempty"`
	TraceHits      *bool    `json:"trace_hits,omitempty" yaml:"trace_hits,omitempty"`
}

// SectorTuning assigns roads to q/pT sectors.
type SectorTuning struct {
	QPtEdges      []float64 `json:"qpt_edges,omitempty" yaml:"qpt_edges,omitempty"`
	FillWildcards *bool     `json:"fill_wildcards,omitempty" yaml:"fill_wildcards,omitempty"`
}

// value returns *p, or def when p is nil.
func value[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON or YAML file.
// The file must be under the max file size. Fields omitted from the
// file fall back to the Get* defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parseTuningConfig(data, ext)
}

func parseTuningConfig(data []byte, ext string) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadDefaultConfig parses the tuning defaults embedded in the binary. It
// does not touch the filesystem.
func LoadDefaultConfig() (*TuningConfig, error) {
	cfg, err := parseTuningConfig(shipped.DefaultsJSON, ".json")
	if err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig is LoadDefaultConfig for test setup. It panics if
// the embedded defaults do not parse.
func MustLoadDefaultConfig() *TuningConfig {
	cfg, err := LoadDefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

func checkRange(name string, lo, hi float64, bins int) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || !(hi > lo) {
		return fmt.Errorf("%s range must be increasing, got [%v, %v]", name, lo, hi)
	}
	if bins <= 0 {
		return fmt.Errorf("%s_bins must be positive, got %d", name, bins)
	}
	return nil
}

// Validate checks the values that can be judged without building a
// finder. Finder constructors check the rest.
func (c *TuningConfig) Validate() error {
	if n := c.GetLayers(); n <= 0 || n > 32 {
		return fmt.Errorf("layers must be between 1 and 32, got %d", n)
	}
	if c.GetSubRegions() <= 0 {
		return fmt.Errorf("sub_regions must be positive, got %d", c.GetSubRegions())
	}
	seen := map[string]bool{}
	for _, f := range c.GetFinders() {
		switch f {
		case FinderHough, FinderShift, FinderDoublet:
		default:
			return fmt.Errorf("unknown finder %q", f)
		}
		if seen[f] {
			return fmt.Errorf("finder %q listed twice", f)
		}
		seen[f] = true
	}

	h := c.Hough
	if err := checkRange("phi", h.GetPhiMin(), h.GetPhiMax(), h.GetPhiBins()); err != nil {
		return fmt.Errorf("hough: %w", err)
	}
	if err := checkRange("qpt", h.GetQPtMin(), h.GetQPtMax(), h.GetQPtBins()); err != nil {
		return fmt.Errorf("hough: %w", err)
	}
	if n := c.GetSubRegions(); h.GetPhiBins()%n != 0 {
		return fmt.Errorf("hough: phi_bins %d does not split into %d sub_regions", h.GetPhiBins(), n)
	}
	for i, b := range h.GetThresholdBands() {
		if b.Axis != "x" && b.Axis != "y" {
			return fmt.Errorf("hough: threshold band %d has axis %q, want x or y", i, b.Axis)
		}
	}

	s := c.Shift
	if err := checkRange("phi", s.GetPhiMin(), s.GetPhiMax(), s.GetPhiBins()); err != nil {
		return fmt.Errorf("shift: %w", err)
	}
	if s.GetIterStep() <= 0 {
		return fmt.Errorf("shift: iter_step must be positive, got %d", s.GetIterStep())
	}

	d := c.Doublet
	if err := checkRange("d0", d.GetD0Min(), d.GetD0Max(), d.GetD0Bins()); err != nil {
		return fmt.Errorf("doublet: %w", err)
	}
	if err := checkRange("qpt", d.GetQPtMin(), d.GetQPtMax(), d.GetQPtBins()); err != nil {
		return fmt.Errorf("doublet: %w", err)
	}
	if d.GetMinDR() < 0 || d.GetMaxDR() < d.GetMinDR() {
		return fmt.Errorf("doublet: need 0 <= min_dr <= max_dr, got [%v, %v]", d.GetMinDR(), d.GetMaxDR())
	}

	edges := c.Sectors.GetQPtEdges()
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return fmt.Errorf("sectors: qpt_edges must be increasing at index %d", i)
		}
	}
	return nil
}

// GetLayers returns the layer count or the default of 8.
func (c *TuningConfig) GetLayers() int { return value(c.Layers, 8) }

// GetRegion returns the detector region or the default of 0.
func (c *TuningConfig) GetRegion() int { return value(c.Region, 0) }

// GetSubRegions returns the slice count or the default of 1.
func (c *TuningConfig) GetSubRegions() int { return value(c.SubRegions, 1) }

// GetFinders returns the finders to run, the standard transform alone by
// default.
func (c *TuningConfig) GetFinders() []string {
	if len(c.Finders) == 0 {
		return []string{FinderHough}
	}
	return c.Finders
}

// Default standard transform image: 216x216 inside phi [0.3, 0.5] and
// |q/pT| < 1, widened by 6 phi bins and 2 q/pT bins on each side.
const (
	defaultHoughPhiBins = 216 + 2*6
	defaultHoughQPtBins = 216 + 2*2
)

var (
	defaultHoughPhiMin = 0.3 - 0.2/216*6
	defaultHoughPhiMax = 0.5 + 0.2/216*6
	defaultHoughQPtMax = 1 + 2.0/216*2
)

// GetPhiMin returns phi_min or the default.
func (h *HoughTuning) GetPhiMin() float64 {
	if h == nil {
		return defaultHoughPhiMin
	}
	return value(h.PhiMin, defaultHoughPhiMin)
}

// GetPhiMax returns phi_max or the default.
func (h *HoughTuning) GetPhiMax() float64 {
	if h == nil {
		return defaultHoughPhiMax
	}
	return value(h.PhiMax, defaultHoughPhiMax)
}

// GetPhiBins returns phi_bins or the default of 228.
func (h *HoughTuning) GetPhiBins() int {
	if h == nil {
		return defaultHoughPhiBins
	}
	return value(h.PhiBins, defaultHoughPhiBins)
}

// GetQPtMin returns qpt_min or the default.
func (h *HoughTuning) GetQPtMin() float64 {
	if h == nil {
		return -defaultHoughQPtMax
	}
	return value(h.QPtMin, -defaultHoughQPtMax)
}

// GetQPtMax returns qpt_max or the default.
func (h *HoughTuning) GetQPtMax() float64 {
	if h == nil {
		return defaultHoughQPtMax
	}
	return value(h.QPtMax, defaultHoughQPtMax)
}

// GetQPtBins returns qpt_bins or the default of 220.
func (h *HoughTuning) GetQPtBins() int {
	if h == nil {
		return defaultHoughQPtBins
	}
	return value(h.QPtBins, defaultHoughQPtBins)
}

// GetD0 returns the impact parameters to run, [0] by default.
func (h *HoughTuning) GetD0() []float64 {
	if h == nil || len(h.D0) == 0 {
		return []float64{0}
	}
	return h.D0
}

// GetFieldCorrection returns field_correction or the default of true.
func (h *HoughTuning) GetFieldCorrection() bool {
	if h == nil {
		return true
	}
	return value(h.FieldCorrection, true)
}

// GetHitExtend returns hit_extend, empty (no extension) by default.
func (h *HoughTuning) GetHitExtend() []float64 {
	if h == nil {
		return nil
	}
	return h.HitExtend
}

// GetCombineLayers returns combine_layers, empty by default.
func (h *HoughTuning) GetCombineLayers() []int {
	if h == nil {
		return nil
	}
	return h.CombineLayers
}

// GetCombineLayers2D returns combine_layers_2d, empty by default.
func (h *HoughTuning) GetCombineLayers2D() [][]int {
	if h == nil {
		return nil
	}
	return h.CombineLayers2D
}

// GetBinScale returns bin_scale, empty by default.
func (h *HoughTuning) GetBinScale() []int {
	if h == nil {
		return nil
	}
	return h.BinScale
}

// GetKernel returns the convolution kernel shape and taps; no kernel by
// default.
func (h *HoughTuning) GetKernel() (width, height int, taps []int) {
	if h == nil {
		return 0, 0, nil
	}
	return value(h.KernelWidth, 0), value(h.KernelHeight, 0), h.Kernel
}

// GetThreshold returns the threshold window or the default of [7].
func (h *HoughTuning) GetThreshold() []int {
	if h == nil || len(h.Threshold) == 0 {
		return []int{7}
	}
	return h.Threshold
}

// GetThresholdBands returns threshold_bands, none by default.
func (h *HoughTuning) GetThresholdBands() []BandTuning {
	if h == nil {
		return nil
	}
	return h.ThresholdBands
}

// GetLocalMaxWindow returns local_max_window or the default of 0.
func (h *HoughTuning) GetLocalMaxWindow() int {
	if h == nil {
		return 0
	}
	return value(h.LocalMaxWindow, 0)
}

// GetTraceHits returns trace_hits or the default of false.
func (h *HoughTuning) GetTraceHits() bool {
	if h == nil {
		return false
	}
	return value(h.TraceHits, false)
}

// GetVerify returns verify or the default of false.
func (h *HoughTuning) GetVerify() bool {
	if h == nil {
		return false
	}
	return value(h.Verify, false)
}

// Default shift transform: 216 phi bins over [0.3, 0.5], |q/pT| < 1 and
// the strip barrel radii.
var defaultShiftRadii = []float64{396.7, 402.7, 559.5, 565.6, 759.5, 765.7, 997.1, 1003.4}

// GetPhiMin returns phi_min or the default of 0.3.
func (s *ShiftTuning) GetPhiMin() float64 {
	if s == nil {
		return 0.3
	}
	return value(s.PhiMin, 0.3)
}

// GetPhiMax returns phi_max or the default of 0.5.
func (s *ShiftTuning) GetPhiMax() float64 {
	if s == nil {
		return 0.5
	}
	return value(s.PhiMax, 0.5)
}

// GetPhiBins returns phi_bins or the default of 216.
func (s *ShiftTuning) GetPhiBins() int {
	if s == nil {
		return 216
	}
	return value(s.PhiBins, 216)
}

// GetQPtMin returns qpt_min or the default of -1.
func (s *ShiftTuning) GetQPtMin() float64 {
	if s == nil {
		return -1
	}
	return value(s.QPtMin, -1)
}

// GetQPtMax returns qpt_max or the default of 1.
func (s *ShiftTuning) GetQPtMax() float64 {
	if s == nil {
		return 1
	}
	return value(s.QPtMax, 1)
}

// GetRadii returns the layer radii in mm or the strip barrel default.
func (s *ShiftTuning) GetRadii() []float64 {
	if s == nil || len(s.Radii) == 0 {
		return defaultShiftRadii
	}
	return s.Radii
}

// GetIterStep returns iter_step or the default of 1.
func (s *ShiftTuning) GetIterStep() int {
	if s == nil {
		return 1
	}
	return value(s.IterStep, 1)
}

// GetUseDiff returns use_diff or the default of false.
func (s *ShiftTuning) GetUseDiff() bool {
	if s == nil {
		return false
	}
	return value(s.UseDiff, false)
}

// GetD0Spread returns d0_spread or the default of 0 (no sweep).
func (s *ShiftTuning) GetD0Spread() float64 {
	if s == nil {
		return 0
	}
	return value(s.D0Spread, 0)
}

// GetShiftsFile returns shifts_file, empty by default.
func (s *ShiftTuning) GetShiftsFile() string {
	if s == nil {
		return ""
	}
	return value(s.ShiftsFile, "")
}

// GetHitExtend returns hit_extend, empty by default.
func (s *ShiftTuning) GetHitExtend() []float64 {
	if s == nil {
		return nil
	}
	return s.HitExtend
}

// GetThreshold returns the threshold window or the default of [7].
func (s *ShiftTuning) GetThreshold() []int {
	if s == nil || len(s.Threshold) == 0 {
		return []int{7}
	}
	return s.Threshold
}

// GetLocalMaxWindow returns local_max_window or the default of 0.
func (s *ShiftTuning) GetLocalMaxWindow() int {
	if s == nil {
		return 0
	}
	return value(s.LocalMaxWindow, 0)
}

// GetTraceHits returns trace_hits or the default of false.
func (s *ShiftTuning) GetTraceHits() bool {
	if s == nil {
		return false
	}
	return value(s.TraceHits, false)
}

// GetPhiRangeCut returns phi_range_cut or the default of false.
func (s *ShiftTuning) GetPhiRangeCut() bool {
	if s == nil {
		return false
	}
	return value(s.PhiRangeCut, false)
}

// GetRegionPhi returns the region phi range, the phi axis by default.
func (s *ShiftTuning) GetRegionPhi() (lo, hi float64) {
	if s == nil {
		return s.GetPhiMin(), s.GetPhiMax()
	}
	return value(s.RegionPhiMin, s.GetPhiMin()), value(s.RegionPhiMax, s.GetPhiMax())
}

// GetD0Min returns d0_min or the default of -120 mm.
func (d *DoubletTuning) GetD0Min() float64 {
	if d == nil {
		return -120
	}
	return value(d.D0Min, -120)
}

// GetD0Max returns d0_max or the default of 120 mm.
func (d *DoubletTuning) GetD0Max() float64 {
	if d == nil {
		return 120
	}
	return value(d.D0Max, 120)
}

// GetD0Bins returns d0_bins or the default of 216.
func (d *DoubletTuning) GetD0Bins() int {
	if d == nil {
		return 216
	}
	return value(d.D0Bins, 216)
}

// GetQPtMin returns qpt_min or the default of -2.
func (d *DoubletTuning) GetQPtMin() float64 {
	if d == nil {
		return -2
	}
	return value(d.QPtMin, -2)
}

// GetQPtMax returns qpt_max or the default of 2.
func (d *DoubletTuning) GetQPtMax() float64 {
	if d == nil {
		return 2
	}
	return value(d.QPtMax, 2)
}

// GetQPtBins returns qpt_bins or the default of 216.
func (d *DoubletTuning) GetQPtBins() int {
	if d == nil {
		return 216
	}
	return value(d.QPtBins, 216)
}

// GetMinDR returns min_dr or the default of 200 mm.
func (d *DoubletTuning) GetMinDR() float64 {
	if d == nil {
		return 200
	}
	return value(d.MinDR, 200)
}

// GetMaxDR returns max_dr or the default of 600 mm.
func (d *DoubletTuning) GetMaxDR() float64 {
	if d == nil {
		return 600
	}
	return value(d.MaxDR, 600)
}

// GetTriplet returns triplet or the default of false.
func (d *DoubletTuning) GetTriplet() bool {
	if d == nil {
		return false
	}
	return value(d.Triplet, false)
}

// GetContinuous returns continuous or the default of true.
func (d *DoubletTuning) GetContinuous() bool {
	if d == nil {
		return true
	}
	return value(d.Continuous, true)
}

// GetThreshold returns threshold or the default of 8.
func (d *DoubletTuning) GetThreshold() int {
	if d == nil {
		return 8
	}
	return value(d.Threshold, 8)
}

// GetThresholdInner returns threshold_inner or the default of 8.
func (d *DoubletTuning) GetThresholdInner() int {
	if d == nil {
		return 8
	}
	return value(d.ThresholdInner, 8)
}

// GetInnerD0 returns inner_d0 or the default of 50 mm.
func (d *DoubletTuning) GetInnerD0() float64 {
	if d == nil {
		return 50
	}
	return value(d.InnerD0, 50)
}

// GetLocalMaxWindow returns local_max_window or the default of 1.
func (d *DoubletTuning) GetLocalMaxWindow() int {
	if d == nil {
		return 1
	}
	return value(d.LocalMaxWindow, 1)
}

// GetTraceHits returns trace_hits or the default of true.
func (d *DoubletTuning) GetTraceHits() bool {
	if d == nil {
		return true
	}
	return value(d.TraceHits, true)
}

// GetQPtEdges returns the sector edges; no sectors by default.
func (s *SectorTuning) GetQPtEdges() []float64 {
	if s == nil {
		return nil
	}
	return s.QPtEdges
}

// GetFillWildcards returns fill_wildcards or the default of false.
func (s *SectorTuning) GetFillWildcards() bool {
	if s == nil {
		return false
	}
	return value(s.FillWildcards, false)
}
