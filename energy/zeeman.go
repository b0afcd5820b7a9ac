package energy

import (
	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/utils"
)

// Zeeman is the applied-field energy. H is the reduced applied field H/Ms;
// the physical density -mu0*Ms*(m.H) becomes -2*(m.h) in Km units. Linear in
// m, so no per-iteration caching. Note the total is deliberately not
// invariant under rotation of the field alone: the applied field direction
// is fixed in the lab frame.
type Zeeman struct {
	H utils.Vec3
}

func NewZeeman(H utils.Vec3) *Zeeman {
	return &Zeeman{H: H}
}

func (z *Zeeman) Name() string { return "zeeman" }

func (z *Zeeman) Prepare(f *field.VectorField) {}

func (z *Zeeman) EnergyDensity(f *field.VectorField, n int) float64 {
	return -2 * f.Dir(n).Dot(z.H)
}

func (z *Zeeman) FieldContribution(f *field.VectorField, n int) utils.Vec3 {
	return z.H.Scale(2)
}
