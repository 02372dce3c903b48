package diagnostics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
)

// Summary describes the occupancy of one vote image.
type Summary struct {
	NX, NY int
	// Filled is the number of cells with at least one vote; Mean and
	// StdDev are taken over those cells.
	Filled int
	Max    int
	Mean   float64
	StdDev float64
}

// Summarize computes the occupancy statistics of im.
func Summarize(im *accumulator.Image) Summary {
	s := Summary{NX: im.NX(), NY: im.NY()}
	var counts []float64
	for _, row := range im.Counts() {
		for _, c := range row {
			if c == 0 {
				continue
			}
			counts = append(counts, float64(c))
			s.Max = max(s.Max, c)
		}
	}
	s.Filled = len(counts)
	switch {
	case s.Filled == 1:
		s.Mean = counts[0]
	case s.Filled > 1:
		s.Mean, s.StdDev = stat.MeanStdDev(counts, nil)
	}
	return s
}

// Occupancy is the fraction of cells with votes.
func (s Summary) Occupancy() float64 {
	if s.NX*s.NY == 0 {
		return 0
	}
	return float64(s.Filled) / float64(s.NX*s.NY)
}

func (s Summary) String() string {
	return fmt.Sprintf("%dx%d image, %d cells filled (%.2f%%), max %d, mean %.2f +/- %.2f",
		s.NX, s.NY, s.Filled, 100*s.Occupancy(), s.Max, s.Mean, s.StdDev)
}
