package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a three component vector used for cell centers, magnetization
// directions and effective fields.
type Vec3 [3]float64

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

func (v Vec3) Scale(a float64) Vec3 {
	return Vec3{a * v[0], a * v[1], a * v[2]}
}

func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

func (v Vec3) NormSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.NormSq())
}

// Normalized returns the unit vector along v. ok is false when the norm is
// too small to divide by, in which case the zero vector is returned.
func (v Vec3) Normalized() (u Vec3, ok bool) {
	var (
		n = v.Norm()
	)
	if n < 1.e-300 {
		return Vec3{}, false
	}
	return v.Scale(1. / n), true
}

// Apply multiplies v by a 3x3 matrix, used to rotate fields in tests and
// when re-orienting anisotropy axes.
func (v Vec3) Apply(R mat.Matrix) (w Vec3) {
	for i := 0; i < 3; i++ {
		w[i] = R.At(i, 0)*v[0] + R.At(i, 1)*v[1] + R.At(i, 2)*v[2]
	}
	return
}

// RotationMatrix builds the 3x3 rotation matrix for a rotation of angle
// radians about the given axis (Rodrigues form). Panics on a zero axis.
func RotationMatrix(axis Vec3, angle float64) (R *mat.Dense) {
	var (
		u, ok = axis.Normalized()
		c, s  = math.Cos(angle), math.Sin(angle)
	)
	if !ok {
		panic("rotation axis has zero length")
	}
	ux, uy, uz := u[0], u[1], u[2]
	R = mat.NewDense(3, 3, []float64{
		c + ux*ux*(1-c), ux*uy*(1-c) - uz*s, ux*uz*(1-c) + uy*s,
		uy*ux*(1-c) + uz*s, c + uy*uy*(1-c), uy*uz*(1-c) - ux*s,
		uz*ux*(1-c) - uy*s, uz*uy*(1-c) + ux*s, c + uz*uz*(1-c),
	})
	return
}
