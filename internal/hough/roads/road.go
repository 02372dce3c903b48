package roads

import (
	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/hits"
)

// Road is a candidate set of hits, at most a few per layer, believed to
// come from one particle.
type Road struct {
	// ID is unique within one FindRoads call and restarts at 0 on the next.
	ID int `json:"id"`
	// PatternID identifies the parameter-space bin, y*nx + x.
	PatternID int `json:"pattern_id"`
	XBin      int `json:"x_bin"`
	YBin      int `json:"y_bin"`
	// X is the phi (or d0) and Y the q/pT at the centre of the bin.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// D0 is the impact parameter hypothesis the road was found under.
	D0 float64 `json:"d0"`

	HitLayers      hits.LayerMask `json:"hit_layers"`
	WildcardLayers hits.LayerMask `json:"wildcard_layers"`
	// Hits has one sorted slice per logical layer.
	Hits [][]hits.Ref `json:"hits"`

	// Sector is -1 when no sector was assigned.
	Sector    int    `json:"sector"`
	SubRegion int    `json:"sub_region"`
	Source    string `json:"source,omitempty"`
}

// NLayers is the logical layer count the road was built for.
func (r Road) NLayers() int { return len(r.Hits) }

// NHits counts the hits over all layers.
func (r Road) NHits() int {
	n := 0
	for _, l := range r.Hits {
		n += len(l)
	}
	return n
}

// MissingLayers are the layers with no real hit.
func (r Road) MissingLayers() hits.LayerMask { return r.HitLayers.Missing(r.NLayers()) }

// AllHits flattens the per-layer hits in layer order.
func (r Road) AllHits() []hits.Ref {
	out := make([]hits.Ref, 0, r.NHits())
	for _, l := range r.Hits {
		out = append(out, l...)
	}
	return out
}

// Buffer is the per-call state of a finder: the roads emitted so far, the
// next ID, and the last image built. A finder resets it at the start of
// every FindRoads call. A Buffer must not be shared between goroutines;
// give each concurrent caller its own.
type Buffer struct {
	roads    []Road
	nextID   int
	image    *accumulator.Image
	children []*Buffer
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Reset clears roads and the image and restarts IDs. Child buffers keep
// their allocations and are reset by the finders that use them.
func (b *Buffer) Reset() {
	b.roads = b.roads[:0]
	b.nextID = 0
	b.image = nil
}

// Emit stores r under the next ID and returns the stored copy.
func (b *Buffer) Emit(r Road) Road {
	r.ID = b.nextID
	b.nextID++
	b.roads = append(b.roads, r)
	return r
}

// Roads returns the roads emitted since the last Reset. The slice is
// reused by the next call.
func (b *Buffer) Roads() []Road { return b.roads }

// Len is the number of roads emitted since the last Reset.
func (b *Buffer) Len() int { return len(b.roads) }

// SetImage records the image the last extraction ran on.
func (b *Buffer) SetImage(im *accumulator.Image) { b.image = im }

// Image returns the last image built, for diagnostics. It may be nil.
func (b *Buffer) Image() *accumulator.Image { return b.image }

// Child returns the i-th nested buffer, creating it on first use.
func (b *Buffer) Child(i int) *Buffer {
	for len(b.children) <= i {
		b.children = append(b.children, NewBuffer())
	}
	return b.children[i]
}

// Children returns the nested buffers created so far.
func (b *Buffer) Children() []*Buffer { return b.children }
