package accumulator

import (
	"errors"
	"fmt"

	"github.com/banshee-data/houghroads/internal/hough/hits"
)

// ErrInconsistent is returned by CheckConsistency when a cell's vote count
// does not match the layer groups that voted for it.
var ErrInconsistent = errors.New("inconsistent vote image")

// Cell is one bin of the image.
type Cell struct {
	// Count is the number of distinct layer groups that voted, or the
	// weighted sum after convolution.
	Count int
	// Hits holds every hit that contributed, when tracing is enabled.
	Hits HitSet
	// Groups records which layer groups voted. Only filled by AddVote.
	Groups hits.LayerMask
}

// Image is a row-major grid of cells indexed [y][x]; y is the curvature
// axis and x the phi (or d0) axis.
type Image struct {
	nx, ny int
	trace  bool
	cells  []Cell
}

// NewImage allocates an empty nx by ny image. With trace set every vote
// records its hit.
func NewImage(nx, ny int, trace bool) *Image {
	if nx < 0 {
		nx = 0
	}
	if ny < 0 {
		ny = 0
	}
	return &Image{nx: nx, ny: ny, trace: trace, cells: make([]Cell, nx*ny)}
}

// NX is the number of x bins.
func (im *Image) NX() int { return im.nx }

// NY is the number of y bins.
func (im *Image) NY() int { return im.ny }

// Traced reports whether cells carry hit sets.
func (im *Image) Traced() bool { return im.trace }

// InBounds reports whether (x, y) is a cell of the image.
func (im *Image) InBounds(x, y int) bool {
	return x >= 0 && x < im.nx && y >= 0 && y < im.ny
}

// At returns the cell at (x, y). The returned hit set aliases the image and
// must not be modified.
func (im *Image) At(x, y int) Cell { return im.cells[y*im.nx+x] }

// Count returns the vote count at (x, y), or 0 outside the image.
func (im *Image) Count(x, y int) int {
	if !im.InBounds(x, y) {
		return 0
	}
	return im.cells[y*im.nx+x].Count
}

// AddVote records a vote from layer group for (x, y). A group is counted at
// most once per cell however many of its hits land there; the hit is still
// added to the cell's hit set. Votes outside the image are dropped and
// reported as false.
func (im *Image) AddVote(x, y, group int, ref hits.Ref) bool {
	if !im.InBounds(x, y) {
		return false
	}
	c := &im.cells[y*im.nx+x]
	if !c.Groups.Has(group) {
		c.Groups = c.Groups.Set(group)
		c.Count++
	}
	if im.trace {
		c.Hits = c.Hits.Add(ref)
	}
	return true
}

// Reset clears every cell, keeping the allocation.
func (im *Image) Reset() {
	for i := range im.cells {
		im.cells[i] = Cell{}
	}
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := NewImage(im.nx, im.ny, im.trace)
	for i, c := range im.cells {
		out.cells[i] = Cell{Count: c.Count, Groups: c.Groups, Hits: append(HitSet(nil), c.Hits...)}
	}
	return out
}

// Counts returns the vote counts as [y][x].
func (im *Image) Counts() [][]int {
	out := make([][]int, im.ny)
	for y := range out {
		row := make([]int, im.nx)
		for x := range row {
			row[x] = im.cells[y*im.nx+x].Count
		}
		out[y] = row
	}
	return out
}

// MaxCount is the largest count in the image.
func (im *Image) MaxCount() int {
	max := 0
	for _, c := range im.cells {
		if c.Count > max {
			max = c.Count
		}
	}
	return max
}

// CheckConsistency verifies that every cell of a freshly voted image was
// counted once per layer group and never more often than there are groups.
// Convolved images carry weighted sums and are not checked.
func CheckConsistency(im *Image, nGroups int) error {
	for y := 0; y < im.ny; y++ {
		for x := 0; x < im.nx; x++ {
			c := im.cells[y*im.nx+x]
			if c.Count > nGroups {
				return fmt.Errorf("%w: cell (%d,%d) has %d votes from %d groups", ErrInconsistent, x, y, c.Count, nGroups)
			}
			if got := c.Groups.Count(); got != c.Count {
				return fmt.Errorf("%w: cell (%d,%d) has %d votes but %d voting groups", ErrInconsistent, x, y, c.Count, got)
			}
		}
	}
	return nil
}
