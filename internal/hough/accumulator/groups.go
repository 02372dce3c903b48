package accumulator

import (
	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
)

// LayerGroups maps physical layers onto the logical vote slots of an image.
// Every group contributes at most one vote per cell. A group may also vote
// at a coarser curvature resolution, filling Scale consecutive y bins from
// one projection.
type LayerGroups struct {
	groupOf []int
	members [][]int
	scale   []int
}

// IdentityGroups gives every layer its own group.
func IdentityGroups(nLayers int) LayerGroups {
	combine := make([]int, nLayers)
	for i := range combine {
		combine[i] = i
	}
	g, _ := FlatGroups(combine)
	return g
}

// FlatGroups builds groups from a per-layer group index, for example
// [0,1,2,0,1,2,0,1] combines (L0,L3,L6) (L1,L4,L7) (L2,L5).
func FlatGroups(combine []int) (LayerGroups, error) {
	n := len(combine)
	if n == 0 || n > hits.MaxLayers {
		return LayerGroups{}, errs.Invalid("layer groups", "combine_layers", "need 1 to %d layers, got %d", hits.MaxLayers, n)
	}
	nGroups := 0
	for l, g := range combine {
		if g < 0 || g >= n {
			return LayerGroups{}, errs.Invalid("layer groups", "combine_layers", "layer %d maps to group %d outside [0, %d)", l, g, n)
		}
		if g+1 > nGroups {
			nGroups = g + 1
		}
	}
	members := make([][]int, nGroups)
	for l, g := range combine {
		members[g] = append(members[g], l)
	}
	for g, m := range members {
		if len(m) == 0 {
			return LayerGroups{}, errs.Invalid("layer groups", "combine_layers", "group %d has no layers", g)
		}
	}
	return newGroups(append([]int(nil), combine...), members), nil
}

// ExplicitGroups builds groups from their member lists, for example
// [[1,2,3],[0,4,5],[6,7]]. Each layer may appear in at most one group;
// layers in no group do not vote.
func ExplicitGroups(groups [][]int, nLayers int) (LayerGroups, error) {
	if nLayers <= 0 || nLayers > hits.MaxLayers {
		return LayerGroups{}, errs.Invalid("layer groups", "layers", "need 1 to %d layers, got %d", hits.MaxLayers, nLayers)
	}
	if len(groups) == 0 {
		return LayerGroups{}, errs.Invalid("layer groups", "combine_layers_2d", "no groups given")
	}
	groupOf := make([]int, nLayers)
	for i := range groupOf {
		groupOf[i] = -1
	}
	members := make([][]int, len(groups))
	for g, ls := range groups {
		if len(ls) == 0 {
			return LayerGroups{}, errs.Invalid("layer groups", "combine_layers_2d", "group %d has no layers", g)
		}
		for _, l := range ls {
			if l < 0 || l >= nLayers {
				return LayerGroups{}, errs.Invalid("layer groups", "combine_layers_2d", "layer %d outside [0, %d)", l, nLayers)
			}
			if groupOf[l] >= 0 {
				return LayerGroups{}, errs.Invalid("layer groups", "combine_layers_2d", "layer %d is in groups %d and %d", l, groupOf[l], g)
			}
			groupOf[l] = g
		}
		members[g] = append([]int(nil), ls...)
	}
	return newGroups(groupOf, members), nil
}

func newGroups(groupOf []int, members [][]int) LayerGroups {
	scale := make([]int, len(members))
	for i := range scale {
		scale[i] = 1
	}
	return LayerGroups{groupOf: groupOf, members: members, scale: scale}
}

// WithScale returns a copy whose groups vote over scale[g] y bins at a time.
func (g LayerGroups) WithScale(scale []int) (LayerGroups, error) {
	if len(scale) != len(g.members) {
		return LayerGroups{}, errs.Invalid("layer groups", "bin_scale", "need %d entries, got %d", len(g.members), len(scale))
	}
	for i, s := range scale {
		if s < 1 {
			return LayerGroups{}, errs.Invalid("layer groups", "bin_scale", "entry %d must be >= 1, got %d", i, s)
		}
	}
	g.scale = append([]int(nil), scale...)
	return g, nil
}

// NLayers is the number of physical layers described.
func (g LayerGroups) NLayers() int { return len(g.groupOf) }

// NGroups is the number of logical vote slots.
func (g LayerGroups) NGroups() int { return len(g.members) }

// Group returns the group of layer, or -1 when the layer does not vote.
func (g LayerGroups) Group(layer int) int {
	if layer < 0 || layer >= len(g.groupOf) {
		return -1
	}
	return g.groupOf[layer]
}

// Members lists the layers of group.
func (g LayerGroups) Members(group int) []int { return g.members[group] }

// Scale is the y bin coarsening of group.
func (g LayerGroups) Scale(group int) int { return g.scale[group] }
