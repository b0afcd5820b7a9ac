package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/utils"
)

func quickParams() Params {
	return Params{
		ExchangeA:     1,
		AnisotropyK:   0.1,
		EasyAxis:      utils.Vec3{0, 0, 1},
		Ms:            1,
		UseDemag:      false, // exchange + anisotropy only keeps this fast
		CellsPerEdge:  4,
		Tol:           1.e-5,
		MaxIterations: 5000,
	}
}

func flowerLike(g *geometry.Grid) field.Initializer {
	return func(x, y, z float64) utils.Vec3 { return utils.Vec3{0, 0, 1} }
}

func vortexLike(g *geometry.Grid) field.Initializer {
	c := g.Center()
	return func(x, y, z float64) utils.Vec3 {
		return utils.Vec3{-(y - c[1]), x - c[0], 0}
	}
}

func TestParamsTerms(t *testing.T) {
	g, err := geometry.NewCube(4, 4)
	require.NoError(t, err)
	// exchange only
	p := Params{ExchangeA: 1, Ms: 1, CellsPerEdge: 4}
	terms, err := p.Terms(g)
	require.NoError(t, err)
	assert.Len(t, terms, 1)
	assert.Equal(t, "exchange", terms[0].Name())
	// full set, order preserved
	p = quickParams()
	p.AppliedField = utils.Vec3{0, 0, 0.1}
	p.UseDemag = true
	terms, err = p.Terms(g)
	require.NoError(t, err)
	require.Len(t, terms, 4)
	names := make([]string, len(terms))
	for i, tm := range terms {
		names[i] = tm.Name()
	}
	assert.Equal(t, "exchange anisotropy zeeman demag", strings.Join(names, " "))
	// bad axis propagates
	p = quickParams()
	p.EasyAxis = utils.Vec3{}
	_, err = p.Terms(g)
	assert.ErrorIs(t, err, field.ErrInvalidParameter)
}

func TestEnergyDifferenceRuns(t *testing.T) {
	// without demag the uniform state beats the vortex at any size: the
	// difference is negative and reproducible across concurrent runs
	eval := EnergyDifference(quickParams(), flowerLike, vortexLike)
	d1, err := eval(context.Background(), 6)
	require.NoError(t, err)
	assert.Less(t, d1, 0.)
	d2, err := eval(context.Background(), 6)
	require.NoError(t, err)
	assert.InDelta(t, d1, d2, 1.e-8)
}

func TestEnergyDifferenceReportsNonConvergence(t *testing.T) {
	p := quickParams()
	p.MaxIterations = 1
	p.Tol = 1.e-14
	eval := EnergyDifference(p, flowerLike, vortexLike)
	_, err := eval(context.Background(), 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxIterationsExceeded")
}

func TestEnergyDifferenceValidatesGeometry(t *testing.T) {
	p := quickParams()
	p.CellsPerEdge = 0
	eval := EnergyDifference(p, flowerLike, vortexLike)
	_, err := eval(context.Background(), 6)
	assert.ErrorIs(t, err, field.ErrInvalidParameter)

	p = quickParams()
	eval = EnergyDifference(p, flowerLike, vortexLike)
	_, err = eval(context.Background(), -1)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}
