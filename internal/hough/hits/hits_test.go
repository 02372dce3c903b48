package hits

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerMask(t *testing.T) {
	t.Parallel()

	m := MaskOf(0, 3, 7)
	assert.True(t, m.Has(3))
	assert.False(t, m.Has(1))
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, []int{0, 3, 7}, m.Layers())
	assert.Equal(t, MaskOf(1, 2, 4, 5, 6), m.Missing(8))
	assert.Equal(t, "10010001", m.String())

	assert.Equal(t, LayerMask(0xff), FullMask(8))
	assert.Equal(t, ^LayerMask(0), FullMask(MaxLayers))
	assert.Equal(t, LayerMask(0), FullMask(0))

	t.Run("out of range layers are ignored", func(t *testing.T) {
		assert.Equal(t, m, m.Set(MaxLayers))
		assert.Equal(t, m, m.Set(-1))
		assert.False(t, m.Has(40))
	})

	t.Run("clear and union", func(t *testing.T) {
		assert.Equal(t, MaskOf(0, 7), m.Clear(3))
		assert.Equal(t, MaskOf(0, 1, 3, 7), m.Union(MaskOf(1)))
		assert.Equal(t, MaskOf(3), m.Intersect(MaskOf(2, 3)))
	})

	t.Run("text form", func(t *testing.T) {
		b, err := MaskOf(0, 4).MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "0x11", string(b))
	})
}

func TestArena(t *testing.T) {
	t.Parallel()

	src := []Hit{
		{Layer: 1, R: 200},
		{Layer: 0, R: 100},
		{Layer: 1, R: 100},
		{Layer: 9, R: 50},
	}
	a := NewArena(src)
	src[0].R = -1
	assert.Equal(t, 200.0, a.At(0).R, "arena must copy its input")
	assert.Equal(t, 4, a.Len())

	assert.Equal(t, [][]Ref{{1}, {0, 2}}, a.ByLayer(2))
	assert.Equal(t, []Ref{3, 1, 2, 0}, a.SortByRadius(a.Refs()))

	r := a.Append(Hit{Layer: 0, R: 10})
	assert.Equal(t, Ref(4), r)
	a.Reset()
	assert.Zero(t, a.Len())

	var nilArena *Arena
	assert.Zero(t, nilArena.Len())
}

func TestHitGeometry(t *testing.T) {
	t.Parallel()

	h := Hit{R: 2, Phi: math.Pi / 2, Z: 0}
	assert.InDelta(t, 0, h.X(), 1e-12)
	assert.InDelta(t, 2, h.Y(), 1e-12)
	assert.InDelta(t, 0, h.Eta(), 1e-12)
	assert.True(t, h.IsReal())
	assert.False(t, Hit{Type: TypeWildcard}.IsReal())
}

func TestReadEvents(t *testing.T) {
	t.Parallel()

	in := `event,layer,r,x,y,z,tech,module,type
# comment
2,1,100,0,100,5,strip,17,real
1,0,50,50,0,1
2,0,40,0,-40,2,pixel,3,guessed
`
	evs, err := ReadEvents(strings.NewReader(in), 0)
	require.NoError(t, err)
	require.Len(t, evs, 2)

	assert.Equal(t, 1, evs[0].ID)
	require.Len(t, evs[0].Hits, 1)
	assert.InDelta(t, 0, evs[0].Hits[0].Phi, 1e-12)
	assert.Equal(t, TechUndefined, evs[0].Hits[0].Tech)

	assert.Equal(t, 2, evs[1].ID)
	require.Len(t, evs[1].Hits, 2)
	first := evs[1].Hits[0]
	assert.Equal(t, 1, first.Layer)
	assert.Equal(t, TechStrip, first.Tech)
	assert.Equal(t, 17, first.Module)
	assert.InDelta(t, math.Pi/2, first.Phi, 1e-12)
	assert.Equal(t, TypeGuessed, evs[1].Hits[1].Type)
	assert.InDelta(t, -math.Pi/2, evs[1].Hits[1].Phi, 1e-12)
}

func TestReadEventsWhitespace(t *testing.T) {
	t.Parallel()

	evs, err := ReadEvents(strings.NewReader("0 3 10 10 0 0\n"), ' ')
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, 3, evs[0].Hits[0].Layer)
}

func TestReadEventsErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"short record":  "1,2,3\n",
		"bad layer":     "1,x,1,1,1,1\n",
		"layer too big": "1,40,1,1,1,1\n",
		"bad float":     "1,0,abc,1,1,1\n",
		"bad tech":      "1,0,1,1,1,1,optical\n",
		"bad type":      "1,0,1,1,1,1,pixel,2,fake\n",
	}
	for name, in := range cases {
		in := in
		t.Run(name, func(t *testing.T) {
			_, err := ReadEvents(strings.NewReader(in), 0)
			assert.Error(t, err)
		})
	}
}

func TestReadEventsErrorCitesFileLine(t *testing.T) {
	t.Parallel()

	in := "# dump of run 7\n" +
		"event,layer,r,x,y,z\n" +
		"# barrel\n" +
		"1,0,40,40,0,0\n" +
		"1,1,abc,100,0,0\n"
	_, err := ReadEvents(strings.NewReader(in), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 5:")
}

func TestParseNames(t *testing.T) {
	t.Parallel()

	for _, tech := range []Technology{TechUndefined, TechPixel, TechStrip} {
		got, err := ParseTechnology(tech.String())
		require.NoError(t, err)
		assert.Equal(t, tech, got)
	}
	for _, typ := range []Type{TypeReal, TypeWildcard, TypeGuessed} {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}
