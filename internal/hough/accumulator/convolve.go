package accumulator

import (
	"github.com/banshee-data/houghroads/internal/hough/errs"
)

// Kernel is a small integer filter stored row-major with y first:
// Weights[r*Width+c] is the tap at row r, column c.
type Kernel struct {
	Width   int
	Height  int
	Weights []int
}

// NewKernel validates the weight count against the declared extent.
func NewKernel(width, height int, weights []int) (Kernel, error) {
	if width <= 0 || height <= 0 {
		return Kernel{}, errs.Invalid("convolution", "conv_size", "need positive extent, got %dx%d", width, height)
	}
	if len(weights) != width*height {
		return Kernel{}, errs.Invalid("convolution", "conv", "need %d weights for %dx%d, got %d", width*height, width, height, len(weights))
	}
	return Kernel{Width: width, Height: height, Weights: append([]int(nil), weights...)}, nil
}

// Empty reports whether the kernel has no taps.
func (k Kernel) Empty() bool { return len(k.Weights) == 0 }

// At returns the weight at row r, column c.
func (k Kernel) At(r, c int) int { return k.Weights[r*k.Width+c] }

// Convolve returns a new image where each cell is the weighted sum of its
// neighbourhood in im, with the kernel centred on the cell. Taps falling
// outside the image are skipped. Only positive contributions are added,
// and the hit sets of those contributing cells are unioned into the
// output cell. im is not modified.
func Convolve(im *Image, k Kernel) *Image {
	out := NewImage(im.nx, im.ny, im.trace)
	if k.Empty() {
		for i, c := range im.cells {
			out.cells[i] = Cell{Count: c.Count, Hits: append(HitSet(nil), c.Hits...)}
		}
		return out
	}
	offY, offX := k.Height/2, k.Width/2
	for y0 := 0; y0 < im.ny; y0++ {
		for x0 := 0; x0 < im.nx; x0++ {
			dst := &out.cells[y0*im.nx+x0]
			for r := 0; r < k.Height; r++ {
				y := y0 - offY + r
				if y < 0 || y >= im.ny {
					continue
				}
				for c := 0; c < k.Width; c++ {
					x := x0 - offX + c
					if x < 0 || x >= im.nx {
						continue
					}
					src := im.cells[y*im.nx+x]
					val := k.At(r, c) * src.Count
					if val <= 0 {
						continue
					}
					dst.Count += val
					if im.trace && len(src.Hits) > 0 {
						dst.Hits = dst.Hits.Union(src.Hits)
					}
				}
			}
		}
	}
	return out
}
