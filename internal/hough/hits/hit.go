package hits

import (
	"fmt"
	"math"
	"strings"
)

// Technology is the sensor technology a hit was recorded in.
type Technology uint8

const (
	TechUndefined Technology = iota
	TechPixel
	TechStrip
)

func (t Technology) String() string {
	switch t {
	case TechPixel:
		return "pixel"
	case TechStrip:
		return "strip"
	default:
		return "undefined"
	}
}

// ParseTechnology accepts the names produced by String, case-insensitively.
// The empty string maps to TechUndefined.
func ParseTechnology(s string) (Technology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "undefined":
		return TechUndefined, nil
	case "pixel":
		return TechPixel, nil
	case "strip":
		return TechStrip, nil
	}
	return TechUndefined, fmt.Errorf("unknown technology %q", s)
}

// Type tags where a hit came from.
type Type uint8

const (
	// TypeReal is a measured hit.
	TypeReal Type = iota
	// TypeWildcard stands in for a layer that is deliberately not required.
	TypeWildcard
	// TypeGuessed is a hit position inferred rather than measured.
	TypeGuessed
)

func (t Type) String() string {
	switch t {
	case TypeWildcard:
		return "wildcard"
	case TypeGuessed:
		return "guessed"
	default:
		return "real"
	}
}

// ParseType accepts the names produced by String. The empty string is TypeReal.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "real":
		return TypeReal, nil
	case "wildcard":
		return TypeWildcard, nil
	case "guessed":
		return TypeGuessed, nil
	}
	return TypeReal, fmt.Errorf("unknown hit type %q", s)
}

// Hit is one measurement in one logical layer. Lengths are in mm, angles in
// radians. Hits are treated as immutable once added to an Arena.
type Hit struct {
	Layer  int
	Tech   Technology
	R      float64
	Phi    float64
	Z      float64
	Module int
	Type   Type
}

// X is the transverse x coordinate.
func (h Hit) X() float64 { return h.R * math.Cos(h.Phi) }

// Y is the transverse y coordinate.
func (h Hit) Y() float64 { return h.R * math.Sin(h.Phi) }

// Eta is the pseudorapidity of the hit seen from the origin.
func (h Hit) Eta() float64 {
	theta := math.Atan2(h.R, h.Z)
	return -math.Log(math.Tan(theta / 2))
}

// IsReal reports whether the hit was measured.
func (h Hit) IsReal() bool { return h.Type == TypeReal }
