// Package search locates the geometry parameter at which two competing
// relaxed configurations have equal total energy, by bracket-preserving
// bisection over an expensive energy difference evaluation.
package search

import (
	"context"
	"fmt"

	"github.com/notargets/gomag/field"
)

// NoBracketError reports an interval whose endpoint energy differences do
// not change sign. Both differences are carried for diagnosis.
type NoBracketError struct {
	Lo, Hi   float64
	DLo, DHi float64
}

func (e *NoBracketError) Error() string {
	return fmt.Sprintf("no bracket: d(%v) = %v and d(%v) = %v have the same sign",
		e.Lo, e.DLo, e.Hi, e.DHi)
}

// Evaluator computes the energy difference d(L) between the two competing
// relaxed states at geometry parameter L. Each call is expensive: it runs a
// full relaxation per state.
type Evaluator func(ctx context.Context, L float64) (d float64, err error)

// CriticalLength bisects [Lo,Hi] for the zero crossing of Eval. Bisection is
// deliberate: each evaluation re-runs two full minimizations, and bisection
// with a generous tolerance keeps the evaluation count at
// log2((Hi-Lo)/Tol) while always retaining a sign change in the bracket.
type CriticalLength struct {
	Lo, Hi float64
	Tol    float64
	Eval   Evaluator
	Quiet  bool
}

// Find returns the bracket midpoint once the bracket width drops below Tol.
func (cl *CriticalLength) Find(ctx context.Context) (L float64, err error) {
	if cl.Tol <= 0 {
		return 0, fmt.Errorf("%w: search tolerance %v must be positive",
			field.ErrInvalidParameter, cl.Tol)
	}
	if cl.Hi <= cl.Lo {
		return 0, fmt.Errorf("%w: interval [%v,%v] is empty",
			field.ErrInvalidParameter, cl.Lo, cl.Hi)
	}
	var (
		lo, hi = cl.Lo, cl.Hi
	)
	dLo, err := cl.Eval(ctx, lo)
	if err != nil {
		return 0, fmt.Errorf("evaluating d(%v): %w", lo, err)
	}
	dHi, err := cl.Eval(ctx, hi)
	if err != nil {
		return 0, fmt.Errorf("evaluating d(%v): %w", hi, err)
	}
	if sameSign(dLo, dHi) {
		return 0, &NoBracketError{Lo: lo, Hi: hi, DLo: dLo, DHi: dHi}
	}
	for hi-lo > cl.Tol {
		mid := 0.5 * (lo + hi)
		dMid, err := cl.Eval(ctx, mid)
		if err != nil {
			return 0, fmt.Errorf("evaluating d(%v): %w", mid, err)
		}
		if !cl.Quiet {
			fmt.Printf("bisection: L = %8.4f, d = %12.6e, bracket [%8.4f, %8.4f]\n",
				mid, dMid, lo, hi)
		}
		if dMid == 0 {
			return mid, nil
		}
		if sameSign(dLo, dMid) {
			lo, dLo = mid, dMid
		} else {
			hi, dHi = mid, dMid
		}
	}
	return 0.5 * (lo + hi), nil
}

func sameSign(a, b float64) bool {
	return (a > 0) == (b > 0) && a != 0 && b != 0
}

// Scan evaluates d on n+1 equally spaced points over [lo,hi], the coarse
// sweep used to establish a bracket before bisecting.
func Scan(ctx context.Context, lo, hi float64, n int, eval Evaluator) (Ls, Ds []float64, err error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("%w: scan requires at least one interval", field.ErrInvalidParameter)
	}
	h := (hi - lo) / float64(n)
	for i := 0; i <= n; i++ {
		L := lo + float64(i)*h
		d, err := eval(ctx, L)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning d(%v): %w", L, err)
		}
		Ls = append(Ls, L)
		Ds = append(Ds, d)
	}
	return
}

// BracketFromScan returns the first adjacent pair with a sign change.
func BracketFromScan(Ls, Ds []float64) (lo, hi float64, err error) {
	for i := 1; i < len(Ds); i++ {
		if !sameSign(Ds[i-1], Ds[i]) {
			return Ls[i-1], Ls[i], nil
		}
	}
	if len(Ls) < 2 {
		return 0, 0, fmt.Errorf("%w: scan has fewer than two points", field.ErrInvalidParameter)
	}
	return 0, 0, &NoBracketError{
		Lo: Ls[0], Hi: Ls[len(Ls)-1],
		DLo: Ds[0], DHi: Ds[len(Ds)-1],
	}
}
