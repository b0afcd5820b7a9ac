package energy

import (
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/utils"
)

// Hamiltonian is an ordered collection of energy terms over one grid. Term
// order is preserved for reproducible logging; totals are independent of it.
type Hamiltonian struct {
	Grid  *geometry.Grid
	terms []Term
	pm    *utils.PartitionMap
}

func NewHamiltonian(g *geometry.Grid, terms ...Term) (h *Hamiltonian) {
	h = &Hamiltonian{
		Grid: g,
		pm:   utils.NewPartitionMap(runtime.NumCPU(), g.NumCells()),
	}
	for _, t := range terms {
		h.AddTerm(t)
	}
	return
}

func (h *Hamiltonian) AddTerm(t Term) {
	h.terms = append(h.terms, t)
}

func (h *Hamiltonian) Terms() []Term {
	return h.terms
}

// Add concatenates the term lists of two Hamiltonians over the same grid.
// The resulting total energy is independent of concatenation order.
func (h *Hamiltonian) Add(other *Hamiltonian) (sum *Hamiltonian) {
	if other.Grid != h.Grid {
		panic(fmt.Sprintf("cannot add Hamiltonians over different grids: %v vs %v",
			h.Grid, other.Grid))
	}
	sum = NewHamiltonian(h.Grid)
	sum.terms = append(sum.terms, h.terms...)
	sum.terms = append(sum.terms, other.terms...)
	return
}

// Prepare runs each term's whole-field precomputation for the current state
// of f.
func (h *Hamiltonian) Prepare(f *field.VectorField) {
	for _, t := range h.terms {
		t.Prepare(f)
	}
}

// TotalEnergy prepares every term and returns the energy summed over terms
// and cells, times the cell volume. Units: Km * l_ex^3.
func (h *Hamiltonian) TotalEnergy(f *field.VectorField) (E float64) {
	h.Prepare(f)
	var (
		partials = make([]float64, h.pm.ParallelDegree)
	)
	h.pm.RunParallel(func(bn, kMin, kMax int) {
		var sum float64
		for n := kMin; n < kMax; n++ {
			for _, t := range h.terms {
				sum += t.EnergyDensity(f, n)
			}
		}
		partials[bn] = sum
	})
	E = floats.Sum(partials) * h.Grid.CellVolume()
	return
}

// TermEnergies prepares the terms and returns the total energy of each term
// in insertion order, for reproducible logging of the energy breakdown.
func (h *Hamiltonian) TermEnergies(f *field.VectorField) (E []float64) {
	h.Prepare(f)
	E = make([]float64, len(h.terms))
	for i, t := range h.terms {
		var sum float64
		for n := 0; n < f.NumCells(); n++ {
			sum += t.EnergyDensity(f, n)
		}
		E[i] = sum * h.Grid.CellVolume()
	}
	return
}

// EffectiveField sums the per-term field contributions at cell n. The terms
// must have been prepared for the current field state, either through
// TotalEnergy, EffectiveFields or an explicit Prepare.
func (h *Hamiltonian) EffectiveField(f *field.VectorField, n int) (hEff utils.Vec3) {
	for _, t := range h.terms {
		hEff = hEff.Add(t.FieldContribution(f, n))
	}
	return
}

// EffectiveFields prepares every term and fills out with the effective field
// at every cell, in parallel across cell buckets.
func (h *Hamiltonian) EffectiveFields(f *field.VectorField, out []utils.Vec3) {
	if len(out) != f.NumCells() {
		panic(fmt.Sprintf("effective field buffer length %d != cell count %d",
			len(out), f.NumCells()))
	}
	h.Prepare(f)
	h.pm.RunParallel(func(bn, kMin, kMax int) {
		for n := kMin; n < kMax; n++ {
			out[n] = h.EffectiveField(f, n)
		}
	})
}
