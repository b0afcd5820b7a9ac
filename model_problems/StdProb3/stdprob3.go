// Package StdProb3 assembles the standard cube problem: find the edge
// length, in exchange length units, at which the flower and vortex
// equilibrium states of a cube with uniaxial anisotropy K = 0.1*Km have
// equal total energy. The published reference crossing is near L = 8.47.
package StdProb3

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/search"
	"github.com/notargets/gomag/utils"
)

// ReducedAnisotropy is the uniaxial constant K/Km of the standard problem,
// easy axis along z (a cube edge).
const ReducedAnisotropy = 0.1

// FlowerSplay sets the slight outward tilt of the flower initializer; the
// relaxation sharpens it into the equilibrium splay near the edges.
const FlowerSplay = 0.1

// Flower initializes a near-uniform state along +z with a slight outward
// splay that grows toward the top and bottom faces.
func Flower(g *geometry.Grid) field.Initializer {
	var (
		c = g.Center()
		L = g.EdgeLengths()
	)
	return func(x, y, z float64) utils.Vec3 {
		xr := (x - c[0]) / L[0]
		yr := (y - c[1]) / L[1]
		zr := (z - c[2]) / L[2]
		return utils.Vec3{FlowerSplay * xr * zr, FlowerSplay * yr * zr, 1}
	}
}

// Vortex initializes a state curling about the z axis through the cube
// center. On the axis itself the curl vanishes; those cells take the
// configured fallback direction (+z by default), which becomes the vortex
// core.
func Vortex(g *geometry.Grid) field.Initializer {
	c := g.Center()
	return func(x, y, z float64) utils.Vec3 {
		return utils.Vec3{-(y - c[1]), x - c[0], 0}
	}
}

// StdProb3 carries the scan interval and numerical parameters of one
// critical length computation.
type StdProb3 struct {
	Lo, Hi        float64 // scan interval for the cube edge length, l_ex units
	ScanPoints    int     // coarse scan intervals used to establish a bracket
	SearchTol     float64 // bisection bracket width tolerance
	Cells         int     // cells per cube edge
	Tol           float64 // minimizer convergence tolerance
	MaxIterations int

	chart    *utils.LineChart
	plotOnce sync.Once
}

// NewStdProb3 fills in the published defaults for any zero argument.
func NewStdProb3(cells int, lo, hi, tol, searchTol float64, maxIterations int) (sp *StdProb3) {
	sp = &StdProb3{
		Lo: lo, Hi: hi,
		ScanPoints:    4,
		SearchTol:     searchTol,
		Cells:         cells,
		Tol:           tol,
		MaxIterations: maxIterations,
	}
	if sp.Cells == 0 {
		sp.Cells = 16
	}
	if sp.Lo == 0 {
		sp.Lo = 8
	}
	if sp.Hi == 0 {
		sp.Hi = 9
	}
	if sp.Tol == 0 {
		sp.Tol = 1.e-5
	}
	if sp.SearchTol == 0 {
		sp.SearchTol = 0.05
	}
	if sp.MaxIterations == 0 {
		sp.MaxIterations = 20000
	}
	return
}

// Params returns the material and numerical constants of the standard
// problem in reduced units.
func (sp *StdProb3) Params() search.Params {
	return search.Params{
		ExchangeA:     1,
		AnisotropyK:   ReducedAnisotropy,
		EasyAxis:      utils.Vec3{0, 0, 1},
		Ms:            1,
		UseDemag:      true,
		CellsPerEdge:  sp.Cells,
		Tol:           sp.Tol,
		MaxIterations: sp.MaxIterations,
	}
}

// Run scans [Lo,Hi] for a sign change of the flower/vortex energy
// difference, optionally plotting the scan, then bisects to the crossing.
func (sp *StdProb3) Run(ctx context.Context, graph bool, graphDelay ...time.Duration) (Lc float64, err error) {
	var (
		eval = search.EnergyDifference(sp.Params(), Flower, Vortex)
	)
	fmt.Printf("standard cube problem: %d^3 cells, edge scan [%4.2f, %4.2f] l_ex\n",
		sp.Cells, sp.Lo, sp.Hi)
	Ls, Ds, err := search.Scan(ctx, sp.Lo, sp.Hi, sp.ScanPoints, eval)
	if err != nil {
		return 0, err
	}
	for i := range Ls {
		fmt.Printf("scan: L = %8.4f, E_flower - E_vortex = %12.6e\n", Ls[i], Ds[i])
	}
	sp.Plot(graph, graphDelay, Ls, Ds)
	lo, hi, err := search.BracketFromScan(Ls, Ds)
	if err != nil {
		return 0, err
	}
	cl := &search.CriticalLength{Lo: lo, Hi: hi, Tol: sp.SearchTol, Eval: eval}
	if Lc, err = cl.Find(ctx); err != nil {
		return 0, err
	}
	fmt.Printf("critical edge length = %8.4f l_ex (bracket width < %g)\n", Lc, sp.SearchTol)
	return
}

func (sp *StdProb3) Plot(showGraph bool, graphDelay []time.Duration, Ls, Ds []float64) {
	if !showGraph {
		return
	}
	var (
		dMin, dMax = Ds[0], Ds[0]
	)
	for _, d := range Ds {
		if d < dMin {
			dMin = d
		}
		if d > dMax {
			dMax = d
		}
	}
	sp.plotOnce.Do(func() {
		sp.chart = utils.NewLineChart(1280, 1024, sp.Lo, sp.Hi, dMin, dMax)
	})
	delay := time.Duration(0)
	if len(graphDelay) != 0 {
		delay = graphDelay[0]
	}
	sp.chart.Plot(delay, Ls, Ds, -1, "dE")
}
