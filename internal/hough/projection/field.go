package projection

// FieldCoefficients describe the phi offset caused by the departure of the
// solenoid field from its nominal value, as a quadratic in radius (metres)
// scaled by q/pT.
type FieldCoefficients struct {
	Quad  float64 `json:"quad" yaml:"quad"`
	Lin   float64 `json:"lin" yaml:"lin"`
	Const float64 `json:"const" yaml:"const"`
}

// FieldCorrection holds coefficients per detector region. Regions without
// an entry get no correction; a nil FieldCorrection disables it entirely.
type FieldCorrection map[int]FieldCoefficients

// DefaultFieldCorrection returns the fitted coefficients for the two
// end-cap transition regions.
func DefaultFieldCorrection() FieldCorrection {
	return FieldCorrection{
		3: {Quad: 0.1216, Lin: -0.0533, Const: 0.0069},
		4: {Quad: 0.4265, Lin: -0.0662, Const: 0.0036},
	}
}

// Delta is the correction added to the track phi for a hit at radius r (mm)
// under curvature qpt.
func (f FieldCorrection) Delta(region int, qpt, r float64) float64 {
	c, ok := f[region]
	if !ok {
		return 0
	}
	rm := r / 1000
	return -(c.Quad*rm*rm + c.Lin*rm + c.Const) * qpt
}
