package energy

import (
	"math"
	"sync"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/utils"
)

// Demag is the long-range magnetostatic (dipolar) interaction. The reduced
// demagnetizing field at cell i is
//
//	hd_i = sum over j of N(r_i - r_j) m_j
//
// with N the 3x3 dipole tensor per relative cell offset and the exact
// uniformly magnetized cube self term -I/3 at zero offset. The sum is a
// convolution, evaluated with zero-padded FFTs over a kernel that depends
// only on the cell counts and cell aspect ratios, so one kernel serves every
// edge length visited by the critical length search.
//
// Density (Km units): -(m . hd). Field contribution: 2*hd, the exact
// negative derivative of the summed density given the symmetric kernel.
type Demag struct {
	grid *geometry.Grid
	kern *demagKernel

	hd   []utils.Vec3    // reduced demag field, filled by Prepare
	mhat [3][]complex128 // padded spectral magnetization components
	work []complex128    // padded scratch for one output component
}

func NewDemag(g *geometry.Grid) (d *Demag) {
	kern := kernelFor(g)
	d = &Demag{
		grid: g,
		kern: kern,
		hd:   make([]utils.Vec3, g.NumCells()),
		work: make([]complex128, kern.size()),
	}
	for c := 0; c < 3; c++ {
		d.mhat[c] = make([]complex128, kern.size())
	}
	return
}

func (d *Demag) Name() string { return "demag" }

// Prepare computes the demag field for the whole grid: three forward FFTs of
// the padded magnetization, a spectral tensor product and three inverse
// FFTs.
func (d *Demag) Prepare(f *field.VectorField) {
	var (
		g          = d.grid
		kn         = d.kern
		px, py, pz = kn.px, kn.py, kn.pz
	)
	for c := 0; c < 3; c++ {
		m := d.mhat[c]
		for n := range m {
			m[n] = 0
		}
		for k := 0; k < g.Nz; k++ {
			for j := 0; j < g.Ny; j++ {
				for i := 0; i < g.Nx; i++ {
					m[i+px*(j+py*k)] = complex(f.Dir(g.Index(i, j, k))[c], 0)
				}
			}
		}
		fft3(m, px, py, pz)
	}
	// hd_a = IFFT( sum_b Khat_ab * Mhat_b ), component by component
	for a := 0; a < 3; a++ {
		for q := range d.work {
			d.work[q] = kn.hat[kn.comp(a, 0)][q]*d.mhat[0][q] +
				kn.hat[kn.comp(a, 1)][q]*d.mhat[1][q] +
				kn.hat[kn.comp(a, 2)][q]*d.mhat[2][q]
		}
		ifft3(d.work, px, py, pz)
		for k := 0; k < g.Nz; k++ {
			for j := 0; j < g.Ny; j++ {
				for i := 0; i < g.Nx; i++ {
					d.hd[g.Index(i, j, k)][a] = real(d.work[i+px*(j+py*k)])
				}
			}
		}
	}
}

func (d *Demag) EnergyDensity(f *field.VectorField, n int) float64 {
	return -f.Dir(n).Dot(d.hd[n])
}

func (d *Demag) FieldContribution(f *field.VectorField, n int) utils.Vec3 {
	return d.hd[n].Scale(2)
}

// DemagField exposes the reduced demagnetizing field of cell n as of the
// last Prepare, for diagnostics and tests.
func (d *Demag) DemagField(n int) utils.Vec3 { return d.hd[n] }

// demagKernel holds the spectral dipole tensor on the zero-padded grid. Six
// unique components, indexed via comp: xx yy zz xy xz yz.
type demagKernel struct {
	px, py, pz int
	hat        [6][]complex128
}

func (kn *demagKernel) size() int { return kn.px * kn.py * kn.pz }

// comp maps tensor indices (a,b) to the stored component slot.
func (kn *demagKernel) comp(a, b int) int {
	if a == b {
		return a
	}
	if a > b {
		a, b = b, a
	}
	switch {
	case a == 0 && b == 1:
		return 3
	case a == 0 && b == 2:
		return 4
	default:
		return 5
	}
}

// kernKey exploits the scale invariance of the dipole tensor under uniform
// cell scaling: the kernel depends only on cell counts and the cell aspect
// ratios, so every bisection iteration over the cube edge length reuses one
// kernel.
type kernKey struct {
	nx, ny, nz int
	ry, rz     float64
}

var (
	kernMu    sync.Mutex
	kernCache = make(map[kernKey]*demagKernel)
)

func kernelFor(g *geometry.Grid) (kn *demagKernel) {
	key := kernKey{g.Nx, g.Ny, g.Nz, g.Dy / g.Dx, g.Dz / g.Dx}
	kernMu.Lock()
	defer kernMu.Unlock()
	if kn = kernCache[key]; kn != nil {
		return
	}
	kn = buildKernel(key)
	kernCache[key] = kn
	return
}

func buildKernel(key kernKey) (kn *demagKernel) {
	var (
		px, py, pz = 2 * key.nx, 2 * key.ny, 2 * key.nz
		dx, dy, dz = 1.0, key.ry, key.rz
		vol        = dx * dy * dz
	)
	kn = &demagKernel{px: px, py: py, pz: pz}
	for c := 0; c < 6; c++ {
		kn.hat[c] = make([]complex128, kn.size())
	}
	for oz := -(key.nz - 1); oz <= key.nz-1; oz++ {
		for oy := -(key.ny - 1); oy <= key.ny-1; oy++ {
			for ox := -(key.nx - 1); ox <= key.nx-1; ox++ {
				q := ((ox+px)%px) + px*(((oy+py)%py)+py*((oz+pz)%pz))
				if ox == 0 && oy == 0 && oz == 0 {
					// self demagnetization of a uniformly magnetized cube
					kn.hat[0][q] = complex(-1./3., 0)
					kn.hat[1][q] = complex(-1./3., 0)
					kn.hat[2][q] = complex(-1./3., 0)
					continue
				}
				var (
					r  = utils.Vec3{float64(ox) * dx, float64(oy) * dy, float64(oz) * dz}
					r2 = r.NormSq()
					c  = vol / (4 * math.Pi * r2 * r2 * math.Sqrt(r2))
				)
				kn.hat[0][q] = complex(c*(3*r[0]*r[0]-r2), 0)
				kn.hat[1][q] = complex(c*(3*r[1]*r[1]-r2), 0)
				kn.hat[2][q] = complex(c*(3*r[2]*r[2]-r2), 0)
				kn.hat[3][q] = complex(c*3*r[0]*r[1], 0)
				kn.hat[4][q] = complex(c*3*r[0]*r[2], 0)
				kn.hat[5][q] = complex(c*3*r[1]*r[2], 0)
			}
		}
	}
	for c := 0; c < 6; c++ {
		fft3(kn.hat[c], px, py, pz)
	}
	return
}
