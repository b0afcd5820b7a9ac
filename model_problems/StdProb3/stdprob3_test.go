package StdProb3

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/search"
	"github.com/notargets/gomag/utils"
)

// coarse but physical: 8 cells per edge keeps the relaxations fast while
// leaving the crossing inside the published bracket
func testParams() search.Params {
	sp := NewStdProb3(8, 8, 9, 1.e-4, 0.05, 8000)
	return sp.Params()
}

func TestInitializers(t *testing.T) {
	g, err := geometry.NewCube(8, 8)
	require.NoError(t, err)
	// flower: dominated by +z everywhere, no degenerate cells
	{
		f, err := field.NewVectorField(g, Flower(g), 1.)
		require.NoError(t, err)
		assert.Equal(t, 0, f.FallbackCount())
		for n := 0; n < f.NumCells(); n++ {
			assert.Greater(t, f.Dir(n)[2], 0.9)
		}
	}
	// vortex: curls about the center, average in-plane moment cancels
	{
		f, err := field.NewVectorField(g, Vortex(g), 1.)
		require.NoError(t, err)
		avg := f.AverageDirection()
		assert.InDelta(t, 0, avg[0], 1.e-10)
		assert.InDelta(t, 0, avg[1], 1.e-10)
		// cell centers sit off the axis for an even cell count
		assert.Equal(t, 0, f.FallbackCount())
	}
}

func TestEnergyOrderingAcrossBracket(t *testing.T) {
	if testing.Short() {
		t.Skip("full relaxations, skipped in -short")
	}
	var (
		p    = testParams()
		eval = search.EnergyDifference(p, Flower, Vortex)
		ctx  = context.Background()
	)
	// flower is the ground state below the crossing, vortex above it
	d8, err := eval(ctx, 8)
	require.NoError(t, err)
	d9, err := eval(ctx, 9)
	require.NoError(t, err)
	assert.Less(t, d8, 0., "flower should win at L = 8 l_ex")
	assert.Greater(t, d9, 0., "vortex should win at L = 9 l_ex")
}

func TestFindCriticalLength(t *testing.T) {
	if testing.Short() {
		t.Skip("full relaxations, skipped in -short")
	}
	var (
		p   = testParams()
		ctx = context.Background()
	)
	Lc, err := search.FindCriticalLength(ctx, 8, 9, 0.05, Flower, Vortex, p)
	require.NoError(t, err)
	assert.Greater(t, Lc, 8.)
	assert.Less(t, Lc, 9.)
	// published crossing is near 8.47; the coarse grid stays in the
	// neighborhood
	assert.InDelta(t, 8.47, Lc, 0.45)
}

func TestNoBracketSurfacesBothEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("full relaxations, skipped in -short")
	}
	// an interval well below the crossing has the same sign at both ends
	p := testParams()
	_, err := search.FindCriticalLength(context.Background(), 4, 5, 0.05, Flower, Vortex, p)
	var nb *search.NoBracketError
	require.True(t, errors.As(err, &nb))
	assert.Less(t, nb.DLo, 0.)
	assert.Less(t, nb.DHi, 0.)
}

func TestDefaults(t *testing.T) {
	sp := NewStdProb3(0, 0, 0, 0, 0, 0)
	assert.Equal(t, 16, sp.Cells)
	assert.Equal(t, 8., sp.Lo)
	assert.Equal(t, 9., sp.Hi)
	assert.Equal(t, 0.05, sp.SearchTol)
	p := sp.Params()
	assert.Equal(t, ReducedAnisotropy, p.AnisotropyK)
	assert.Equal(t, utils.Vec3{0, 0, 1}, p.EasyAxis)
	assert.True(t, p.UseDemag)
}
