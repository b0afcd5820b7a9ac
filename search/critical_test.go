package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomag/field"
)

func linearCrossing(root float64) Evaluator {
	return func(ctx context.Context, L float64) (float64, error) {
		return L - root, nil
	}
}

func TestBisectionFindsCrossing(t *testing.T) {
	cl := &CriticalLength{Lo: 8, Hi: 9, Tol: 1.e-3, Eval: linearCrossing(8.47), Quiet: true}
	L, err := cl.Find(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 8.47, L, 1.e-3)
	assert.Greater(t, L, 8.)
	assert.Less(t, L, 9.)
}

func TestBisectionCountsEvaluations(t *testing.T) {
	// each halving is one evaluation: expect 2 endpoint calls plus about
	// log2(width/tol) midpoints, the reason bisection is used at all
	var calls int
	eval := func(ctx context.Context, L float64) (float64, error) {
		calls++
		return math.Tanh(L - 8.6), nil
	}
	cl := &CriticalLength{Lo: 8, Hi: 9, Tol: 0.05, Eval: eval, Quiet: true}
	L, err := cl.Find(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 8.6, L, 0.05)
	assert.LessOrEqual(t, calls, 2+6)
}

func TestNoBracket(t *testing.T) {
	cl := &CriticalLength{Lo: 8, Hi: 9, Tol: 1.e-3, Eval: linearCrossing(20), Quiet: true}
	_, err := cl.Find(context.Background())
	var nb *NoBracketError
	require.True(t, errors.As(err, &nb))
	// both endpoint differences are carried for diagnosis
	assert.InDelta(t, -12, nb.DLo, 1.e-12)
	assert.InDelta(t, -11, nb.DHi, 1.e-12)
	assert.Contains(t, nb.Error(), "same sign")
}

func TestFindValidation(t *testing.T) {
	cl := &CriticalLength{Lo: 9, Hi: 8, Tol: 1.e-3, Eval: linearCrossing(8.5), Quiet: true}
	_, err := cl.Find(context.Background())
	assert.ErrorIs(t, err, field.ErrInvalidParameter)
	cl = &CriticalLength{Lo: 8, Hi: 9, Tol: 0, Eval: linearCrossing(8.5), Quiet: true}
	_, err = cl.Find(context.Background())
	assert.ErrorIs(t, err, field.ErrInvalidParameter)
}

func TestScanAndBracket(t *testing.T) {
	Ls, Ds, err := Scan(context.Background(), 8, 9, 4, linearCrossing(8.3))
	require.NoError(t, err)
	assert.Len(t, Ls, 5)
	assert.Len(t, Ds, 5)
	lo, hi, err := BracketFromScan(Ls, Ds)
	require.NoError(t, err)
	assert.InDelta(t, 8.25, lo, 1.e-12)
	assert.InDelta(t, 8.5, hi, 1.e-12)

	// no sign change anywhere
	_, _, err = BracketFromScan([]float64{1, 2}, []float64{1, 2})
	var nb *NoBracketError
	assert.True(t, errors.As(err, &nb))
}

func TestEvaluatorErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	eval := func(ctx context.Context, L float64) (float64, error) {
		return 0, boom
	}
	cl := &CriticalLength{Lo: 8, Hi: 9, Tol: 1.e-3, Eval: eval, Quiet: true}
	_, err := cl.Find(context.Background())
	assert.ErrorIs(t, err, boom)
}
