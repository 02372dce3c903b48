package accumulator

import (
	"sort"

	"github.com/banshee-data/houghroads/internal/hough/hits"
)

// HitSet is a sorted set of hit handles. Sorting keeps iteration order,
// and therefore road contents, reproducible.
type HitSet []hits.Ref

// Add returns the set with r inserted.
func (s HitSet) Add(r hits.Ref) HitSet {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= r })
	if i < len(s) && s[i] == r {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = r
	return s
}

// Contains reports whether r is in the set.
func (s HitSet) Contains(r hits.Ref) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= r })
	return i < len(s) && s[i] == r
}

// Union merges o into a new set; neither input is modified.
func (s HitSet) Union(o HitSet) HitSet {
	if len(o) == 0 {
		return append(HitSet(nil), s...)
	}
	out := make(HitSet, 0, len(s)+len(o))
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		switch {
		case s[i] < o[j]:
			out = append(out, s[i])
			i++
		case s[i] > o[j]:
			out = append(out, o[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	return append(out, o[j:]...)
}

// Len is the number of hits in the set.
func (s HitSet) Len() int { return len(s) }
