package roads

import (
	"math"
	"sort"

	"github.com/banshee-data/houghroads/internal/hough/errs"
)

// SectorMap assigns roads to ideal-geometry sectors by their q/pT. Sector i
// covers [QPtEdges[i], QPtEdges[i+1]).
type SectorMap struct {
	QPtEdges []float64
	// FillWildcards marks every layer without a real hit as a wildcard.
	FillWildcards bool
}

// NewSectorMap validates that the edges increase strictly.
func NewSectorMap(edges []float64, fillWildcards bool) (*SectorMap, error) {
	if len(edges) < 2 {
		return nil, errs.Invalid("sectors", "qpt_edges", "need at least 2 edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return nil, errs.Invalid("sectors", "qpt_edges", "edges must increase, %v follows %v", edges[i], edges[i-1])
		}
	}
	return &SectorMap{QPtEdges: append([]float64(nil), edges...), FillWildcards: fillWildcards}, nil
}

// Sector returns the sector containing qpt, or -1.
func (s *SectorMap) Sector(qpt float64) int {
	e := s.QPtEdges
	if math.IsNaN(qpt) || qpt < e[0] || qpt >= e[len(e)-1] {
		return -1
	}
	return sort.Search(len(e), func(i int) bool { return e[i] > qpt }) - 1
}
