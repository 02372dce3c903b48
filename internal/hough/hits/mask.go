package hits

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxLayers is the widest layer set a LayerMask can describe.
const MaxLayers = 32

// LayerMask is a fixed-width set of logical layer indices.
type LayerMask uint32

// FullMask has the first n layers set.
func FullMask(n int) LayerMask {
	if n >= MaxLayers {
		return ^LayerMask(0)
	}
	if n <= 0 {
		return 0
	}
	return LayerMask(1)<<uint(n) - 1
}

// MaskOf builds a mask from layer indices.
func MaskOf(layers ...int) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m = m.Set(l)
	}
	return m
}

// Set returns m with layer l added. Out-of-range layers are ignored.
func (m LayerMask) Set(l int) LayerMask {
	if l < 0 || l >= MaxLayers {
		return m
	}
	return m | 1<<uint(l)
}

// Clear returns m without layer l.
func (m LayerMask) Clear(l int) LayerMask {
	if l < 0 || l >= MaxLayers {
		return m
	}
	return m &^ (1 << uint(l))
}

// Has reports whether layer l is in m.
func (m LayerMask) Has(l int) bool {
	if l < 0 || l >= MaxLayers {
		return false
	}
	return m&(1<<uint(l)) != 0
}

// Union returns the layers in either mask.
func (m LayerMask) Union(o LayerMask) LayerMask { return m | o }

// Intersect returns the layers in both masks.
func (m LayerMask) Intersect(o LayerMask) LayerMask { return m & o }

// Count is the number of layers in m.
func (m LayerMask) Count() int { return bits.OnesCount32(uint32(m)) }

// Missing returns the layers below n that are not in m.
func (m LayerMask) Missing(n int) LayerMask { return FullMask(n) &^ m }

// Layers lists the set layers in increasing order.
func (m LayerMask) Layers() []int {
	out := make([]int, 0, m.Count())
	for v := uint32(m); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros32(v))
	}
	return out
}

// String renders the mask as a bit string, layer 0 first.
func (m LayerMask) String() string {
	if m == 0 {
		return "0"
	}
	n := MaxLayers - bits.LeadingZeros32(uint32(m))
	var b strings.Builder
	for l := 0; l < n; l++ {
		if m.Has(l) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// MarshalText renders the mask as a hexadecimal literal.
func (m LayerMask) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", uint32(m))), nil
}
