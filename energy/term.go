// Package energy implements the micromagnetic energy terms and their
// aggregation into a Hamiltonian.
//
// Unit convention: lengths are measured in exchange lengths l_ex and energy
// densities in units of Km = mu0*Ms^2/2, so the total energies of the
// competing equilibrium states are directly comparable in reduced form.
// FieldContribution is the negative partial derivative of the summed energy
// density with respect to the local unit direction, in the same reduced
// units; it is what drives the relaxation.
package energy

import (
	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/utils"
)

// Term is one energy contribution. Prepare runs whole-field precomputation
// (the demagnetization convolution, the exchange stencil product) and must
// be called for the current field state before EnergyDensity or
// FieldContribution are read; Hamiltonian does this for its callers. Local
// terms implement Prepare as a no-op.
type Term interface {
	Name() string
	Prepare(f *field.VectorField)
	EnergyDensity(f *field.VectorField, n int) float64
	FieldContribution(f *field.VectorField, n int) utils.Vec3
}
