package hits

import "sort"

// Ref is a handle to a hit inside an Arena. Refs are only meaningful for
// the Arena that issued them.
type Ref int32

// Arena holds the hits of one event. Engines never keep pointers to hits;
// images and roads carry Refs instead, so the Arena can be reused between
// events once the roads of the previous one are no longer needed.
type Arena struct {
	hits []Hit
}

// NewArena copies hs into a fresh arena.
func NewArena(hs []Hit) *Arena {
	a := &Arena{hits: make([]Hit, len(hs))}
	copy(a.hits, hs)
	return a
}

// Append adds h and returns its handle.
func (a *Arena) Append(h Hit) Ref {
	a.hits = append(a.hits, h)
	return Ref(len(a.hits) - 1)
}

// Reset drops every hit but keeps the backing storage.
func (a *Arena) Reset() { a.hits = a.hits[:0] }

// Len returns the number of hits. A nil arena is empty.
func (a *Arena) Len() int {
	if a == nil {
		return 0
	}
	return len(a.hits)
}

// At returns the hit for r.
func (a *Arena) At(r Ref) Hit { return a.hits[r] }

// Refs returns every handle in insertion order.
func (a *Arena) Refs() []Ref {
	refs := make([]Ref, a.Len())
	for i := range refs {
		refs[i] = Ref(i)
	}
	return refs
}

// ByLayer buckets handles by layer. Hits whose layer is outside
// [0, nLayers) are left out.
func (a *Arena) ByLayer(nLayers int) [][]Ref {
	out := make([][]Ref, nLayers)
	for i := 0; i < a.Len(); i++ {
		l := a.hits[i].Layer
		if l < 0 || l >= nLayers {
			continue
		}
		out[l] = append(out[l], Ref(i))
	}
	return out
}

// SortByRadius returns refs ordered by increasing radius, ties broken by Ref
// so the order is reproducible.
func (a *Arena) SortByRadius(refs []Ref) []Ref {
	out := append([]Ref(nil), refs...)
	sort.Slice(out, func(i, j int) bool {
		ri, rj := a.hits[out[i]].R, a.hits[out[j]].R
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}
