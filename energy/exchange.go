package energy

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/utils"
)

// Exchange is the Heisenberg exchange energy discretized with axis-aligned
// finite differences and free boundaries: neighbors outside the grid simply
// do not contribute. The 7-point stencil is assembled once per grid as a
// sparse CSR operator L with
//
//	(L m)_i = sum over present neighbors nb of (m_nb - m_i) / delta^2
//
// applied per vector component. With unit directions the energy density is
// -A * m_i . (L m)_i and the field contribution 2A * (L m)_i, which is the
// exact negative derivative of the summed density.
type Exchange struct {
	A    float64 // exchange constant, units Km*l_ex^2 (equals 1 in reduced units)
	grid *geometry.Grid

	stencil *sparse.CSR
	lm      []utils.Vec3 // L applied to the current field, filled by Prepare
}

func NewExchange(A float64, g *geometry.Grid) (ex *Exchange, err error) {
	if A <= 0 {
		return nil, fmt.Errorf("%w: exchange constant A = %v must be positive",
			field.ErrInvalidParameter, A)
	}
	ex = &Exchange{
		A:       A,
		grid:    g,
		stencil: buildExchangeStencil(g),
		lm:      make([]utils.Vec3, g.NumCells()),
	}
	return
}

func (ex *Exchange) Name() string { return "exchange" }

func buildExchangeStencil(g *geometry.Grid) *sparse.CSR {
	var (
		N   = g.NumCells()
		dok = sparse.NewDOK(N, N)
		inv = [3]float64{1. / (g.Dx * g.Dx), 1. / (g.Dy * g.Dy), 1. / (g.Dz * g.Dz)}
	)
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				var (
					n    = g.Index(i, j, k)
					diag float64
				)
				add := func(ni, nj, nk int, w float64) {
					if ni < 0 || ni >= g.Nx || nj < 0 || nj >= g.Ny || nk < 0 || nk >= g.Nz {
						return // free boundary
					}
					dok.Set(n, g.Index(ni, nj, nk), w)
					diag -= w
				}
				add(i-1, j, k, inv[0])
				add(i+1, j, k, inv[0])
				add(i, j-1, k, inv[1])
				add(i, j+1, k, inv[1])
				add(i, j, k-1, inv[2])
				add(i, j, k+1, inv[2])
				dok.Set(n, n, diag)
			}
		}
	}
	return dok.ToCSR()
}

// Prepare applies the stencil to all three components of the field in one
// sweep over the nonzeros.
func (ex *Exchange) Prepare(f *field.VectorField) {
	for n := range ex.lm {
		ex.lm[n] = utils.Vec3{}
	}
	ex.stencil.DoNonZero(func(i, j int, v float64) {
		m := f.Dir(j)
		ex.lm[i][0] += v * m[0]
		ex.lm[i][1] += v * m[1]
		ex.lm[i][2] += v * m[2]
	})
}

func (ex *Exchange) EnergyDensity(f *field.VectorField, n int) float64 {
	return -ex.A * f.Dir(n).Dot(ex.lm[n])
}

func (ex *Exchange) FieldContribution(f *field.VectorField, n int) utils.Vec3 {
	return ex.lm[n].Scale(2 * ex.A)
}
