package accumulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
)

func TestHitSet(t *testing.T) {
	t.Parallel()

	var s HitSet
	s = s.Add(5).Add(1).Add(3).Add(5)
	assert.Equal(t, HitSet{1, 3, 5}, s)
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(2))

	u := s.Union(HitSet{0, 3, 9})
	assert.Equal(t, HitSet{0, 1, 3, 5, 9}, u)
	assert.Equal(t, HitSet{1, 3, 5}, s, "union must not modify its receiver")
	assert.Equal(t, 3, s.Union(nil).Len())
}

func TestAddVoteCountsGroupsOnce(t *testing.T) {
	t.Parallel()

	im := NewImage(4, 3, true)
	assert.True(t, im.AddVote(1, 2, 0, 10))
	assert.True(t, im.AddVote(1, 2, 0, 11))
	assert.True(t, im.AddVote(1, 2, 3, 12))
	assert.False(t, im.AddVote(4, 0, 0, 13))
	assert.False(t, im.AddVote(0, -1, 0, 13))

	c := im.At(1, 2)
	assert.Equal(t, 2, c.Count)
	assert.Equal(t, HitSet{10, 11, 12}, c.Hits)
	assert.Equal(t, hits.MaskOf(0, 3), c.Groups)
	assert.Equal(t, 0, im.Count(9, 9))
	assert.Equal(t, 2, im.MaxCount())
	require.NoError(t, CheckConsistency(im, 4))

	untraced := NewImage(2, 2, false)
	untraced.AddVote(0, 0, 1, 7)
	assert.Empty(t, untraced.At(0, 0).Hits)
	assert.Equal(t, 1, untraced.Count(0, 0))
}

func TestCheckConsistency(t *testing.T) {
	t.Parallel()

	im := NewImage(2, 2, false)
	im.AddVote(0, 0, 0, 0)
	im.AddVote(0, 0, 1, 1)
	im.AddVote(0, 0, 2, 2)
	require.NoError(t, CheckConsistency(im, 3))
	assert.ErrorIs(t, CheckConsistency(im, 2), ErrInconsistent)

	im.cells[3].Count = 1
	assert.ErrorIs(t, CheckConsistency(im, 3), ErrInconsistent)
}

func TestImageCloneAndReset(t *testing.T) {
	t.Parallel()

	im := NewImage(3, 2, true)
	im.AddVote(2, 1, 0, 4)
	cp := im.Clone()
	im.AddVote(2, 1, 1, 5)
	assert.Equal(t, 1, cp.Count(2, 1))
	assert.Equal(t, HitSet{4}, cp.At(2, 1).Hits)
	assert.Equal(t, [][]int{{0, 0, 0}, {0, 0, 2}}, im.Counts())

	im.Reset()
	assert.Equal(t, 0, im.MaxCount())
	assert.Equal(t, 3, im.NX())
	assert.Equal(t, 2, im.NY())
	assert.True(t, im.Traced())
}

func TestLayerGroups(t *testing.T) {
	t.Parallel()

	g, err := FlatGroups([]int{0, 1, 2, 0, 1, 2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 8, g.NLayers())
	assert.Equal(t, 3, g.NGroups())
	assert.Equal(t, []int{0, 3, 6}, g.Members(0))
	assert.Equal(t, []int{2, 5}, g.Members(2))
	assert.Equal(t, 1, g.Group(7))
	assert.Equal(t, -1, g.Group(8))
	assert.Equal(t, 1, g.Scale(1))

	scaled, err := g.WithScale([]int{1, 2, 4})
	require.NoError(t, err)
	assert.Equal(t, 4, scaled.Scale(2))
	assert.Equal(t, 1, g.Scale(2), "WithScale returns a copy")

	_, err = g.WithScale([]int{1, 2})
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
	_, err = g.WithScale([]int{1, 0, 1})
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)

	id := IdentityGroups(4)
	assert.Equal(t, 4, id.NGroups())
	assert.Equal(t, 3, id.Group(3))

	t.Run("explicit", func(t *testing.T) {
		e, err := ExplicitGroups([][]int{{1, 2, 3}, {0, 4, 5}, {6, 7}}, 8)
		require.NoError(t, err)
		assert.Equal(t, 1, e.Group(0))
		assert.Equal(t, 2, e.Group(7))
		assert.Equal(t, 3, e.NGroups())

		partial, err := ExplicitGroups([][]int{{0, 1}}, 3)
		require.NoError(t, err)
		assert.Equal(t, -1, partial.Group(2))
	})

	t.Run("invalid", func(t *testing.T) {
		for name, fn := range map[string]func() error{
			"empty flat":      func() error { _, err := FlatGroups(nil); return err },
			"gap in groups":   func() error { _, err := FlatGroups([]int{0, 2, 2}); return err },
			"negative group":  func() error { _, err := FlatGroups([]int{0, -1}); return err },
			"duplicate layer": func() error { _, err := ExplicitGroups([][]int{{0, 1}, {1}}, 2); return err },
			"layer too big":   func() error { _, err := ExplicitGroups([][]int{{0, 5}}, 2); return err },
			"empty group":     func() error { _, err := ExplicitGroups([][]int{{0}, {}}, 2); return err },
			"no groups":       func() error { _, err := ExplicitGroups(nil, 2); return err },
			"too many layers": func() error { _, err := ExplicitGroups([][]int{{0}}, 33); return err },
		} {
			assert.ErrorIs(t, fn(), errs.ErrInvalidConfig, name)
		}
	})
}

func TestNewKernel(t *testing.T) {
	t.Parallel()

	k, err := NewKernel(3, 1, []int{1, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, k.At(0, 1))
	assert.False(t, k.Empty())

	_, err = NewKernel(3, 1, []int{1, 2})
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
	_, err = NewKernel(0, 1, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestConvolve(t *testing.T) {
	t.Parallel()

	im := NewImage(5, 3, true)
	im.AddVote(2, 1, 0, 1)
	im.AddVote(2, 1, 1, 2)
	im.AddVote(3, 1, 0, 3)
	im.AddVote(0, 0, 0, 4)
	before := im.Clone()

	k, err := NewKernel(3, 3, []int{
		0, 1, 0,
		1, 2, 1,
		0, 1, 0,
	})
	require.NoError(t, err)
	out := Convolve(im, k)

	assert.Equal(t, before, im, "input must not be mutated")
	assert.Equal(t, 2*2+1, out.Count(2, 1))
	assert.Equal(t, HitSet{1, 2, 3}, out.At(2, 1).Hits)
	assert.Equal(t, 2, out.Count(1, 1))
	assert.Equal(t, 2, out.Count(2, 0))
	assert.Equal(t, 2, out.Count(0, 0), "out-of-bounds taps are skipped")
	assert.Equal(t, 1, out.Count(1, 0))
	assert.Equal(t, HitSet{4}, out.At(1, 0).Hits)

	t.Run("never decreases with non-negative weights", func(t *testing.T) {
		for y := 0; y < im.NY(); y++ {
			for x := 0; x < im.NX(); x++ {
				assert.GreaterOrEqual(t, out.Count(x, y), im.Count(x, y))
			}
		}
	})

	t.Run("negative taps add nothing", func(t *testing.T) {
		neg, err := NewKernel(3, 1, []int{-1, 1, -1})
		require.NoError(t, err)
		got := Convolve(im, neg)
		assert.Equal(t, im.Count(2, 1), got.Count(2, 1))
		assert.Equal(t, HitSet{1, 2}, got.At(2, 1).Hits)
	})

	t.Run("even extent centres on the upper tap", func(t *testing.T) {
		k2, err := NewKernel(2, 1, []int{1, 1})
		require.NoError(t, err)
		got := Convolve(im, k2)
		assert.Equal(t, im.Count(2, 1)+im.Count(1, 1), got.Count(2, 1))
		assert.Equal(t, im.Count(3, 1)+im.Count(2, 1), got.Count(3, 1))
	})

	t.Run("empty kernel copies", func(t *testing.T) {
		got := Convolve(im, Kernel{})
		assert.Equal(t, im.Counts(), got.Counts())
	})
}
