package search

import (
	"context"
	"fmt"

	"github.com/notargets/gomag/energy"
	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/relax"
	"github.com/notargets/gomag/utils"
)

// InitMaker builds an initializer for a concrete grid. The geometry changes
// at every bisection step, so state initializers that depend on the box
// center or edge length are constructed per grid rather than passed as fixed
// closures.
type InitMaker func(g *geometry.Grid) field.Initializer

// Params fixes the material and numerical constants shared by every
// evaluation of the energy difference. Lengths are in exchange length
// units, so ExchangeA is 1 and AnisotropyK is the reduced constant K/Km.
type Params struct {
	ExchangeA    float64
	AnisotropyK  float64
	EasyAxis     utils.Vec3
	Ms           float64
	AppliedField utils.Vec3 // reduced H/Ms; zero means no Zeeman term
	UseDemag     bool

	CellsPerEdge  int
	Tol           float64 // minimizer convergence tolerance
	MaxIterations int

	FlowerFallback utils.Vec3 // zero selects the field package default
	VortexFallback utils.Vec3
}

// Terms builds a fresh term set for one relaxation over g. Terms hold
// per-iterate state, so concurrent relaxations must not share them.
func (p Params) Terms(g *geometry.Grid) (terms []energy.Term, err error) {
	ex, err := energy.NewExchange(p.ExchangeA, g)
	if err != nil {
		return nil, err
	}
	terms = append(terms, ex)
	if p.AnisotropyK != 0 {
		an, err := energy.NewUniaxialAnisotropy(p.AnisotropyK, p.EasyAxis)
		if err != nil {
			return nil, err
		}
		terms = append(terms, an)
	}
	if p.AppliedField.NormSq() > 0 {
		terms = append(terms, energy.NewZeeman(p.AppliedField))
	}
	if p.UseDemag {
		terms = append(terms, energy.NewDemag(g))
	}
	return
}

type branchResult struct {
	name   string
	E      float64
	status relax.Status
	err    error
}

// relaxBranch builds its own term set: the demag and exchange terms hold
// per-instance iterate buffers and cannot be shared across the two
// concurrent relaxations. The demag kernel itself is cached per grid shape.
func relaxBranch(ctx context.Context, name string, p Params, g *geometry.Grid,
	init field.Initializer, fallback utils.Vec3, out chan<- branchResult) {
	var (
		res = branchResult{name: name}
	)
	terms, err := p.Terms(g)
	if err != nil {
		res.err = err
		out <- res
		return
	}
	var opts []field.Option
	if fallback.NormSq() > 0 {
		opts = append(opts, field.WithFallback(fallback))
	}
	_, res.E, res.status, res.err = relax.Minimize(ctx, g, terms, init, p.Ms,
		p.Tol, p.MaxIterations, opts...)
	if res.err == nil && res.status != relax.Converged {
		res.err = fmt.Errorf("%s relaxation ended with status %s after the iteration budget",
			name, res.status)
	}
	out <- res
}

// EnergyDifference returns the evaluator d(L) = E_flower(L) - E_vortex(L)
// for a cube of edge length L. The two relaxations are independent and run
// concurrently, each owning its field, terms and minimizer.
func EnergyDifference(p Params, flower, vortex InitMaker) Evaluator {
	return func(ctx context.Context, L float64) (d float64, err error) {
		if p.CellsPerEdge < 1 {
			return 0, fmt.Errorf("%w: cells per edge %d must be positive",
				field.ErrInvalidParameter, p.CellsPerEdge)
		}
		g, err := geometry.NewCube(L, p.CellsPerEdge)
		if err != nil {
			return 0, err
		}
		results := make(chan branchResult, 2)
		go relaxBranch(ctx, "flower", p, g, flower(g), p.FlowerFallback, results)
		go relaxBranch(ctx, "vortex", p, g, vortex(g), p.VortexFallback, results)
		var eFlower, eVortex float64
		for i := 0; i < 2; i++ {
			res := <-results
			if res.err != nil {
				return 0, fmt.Errorf("L = %v: %w", L, res.err)
			}
			if res.name == "flower" {
				eFlower = res.E
			} else {
				eVortex = res.E
			}
		}
		return eFlower - eVortex, nil
	}
}

// FindCriticalLength bisects [lo,hi] for the edge length where the flower
// and vortex states have equal energy.
func FindCriticalLength(ctx context.Context, lo, hi, tol float64,
	flower, vortex InitMaker, p Params) (L float64, err error) {
	cl := &CriticalLength{
		Lo:   lo,
		Hi:   hi,
		Tol:  tol,
		Eval: EnergyDifference(p, flower, vortex),
	}
	return cl.Find(ctx)
}
