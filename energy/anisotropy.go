package energy

import (
	"fmt"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/utils"
)

// UniaxialAnisotropy penalizes deviation of the direction from the easy
// axis: density K*(1 - (m.u)^2), field contribution 2K*(m.u)*u. K is in Km
// units (0.1 for the standard cube problem).
type UniaxialAnisotropy struct {
	K    float64
	Axis utils.Vec3 // unit easy axis
}

func NewUniaxialAnisotropy(K float64, axis utils.Vec3) (an *UniaxialAnisotropy, err error) {
	u, ok := axis.Normalized()
	if !ok {
		return nil, fmt.Errorf("%w: anisotropy axis has zero length", field.ErrInvalidParameter)
	}
	return &UniaxialAnisotropy{K: K, Axis: u}, nil
}

func (an *UniaxialAnisotropy) Name() string { return "anisotropy" }

func (an *UniaxialAnisotropy) Prepare(f *field.VectorField) {}

func (an *UniaxialAnisotropy) EnergyDensity(f *field.VectorField, n int) float64 {
	p := f.Dir(n).Dot(an.Axis)
	return an.K * (1 - p*p)
}

func (an *UniaxialAnisotropy) FieldContribution(f *field.VectorField, n int) utils.Vec3 {
	return an.Axis.Scale(2 * an.K * f.Dir(n).Dot(an.Axis))
}
