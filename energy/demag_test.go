package energy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/utils"
)

// directDemagField is the O(N^2) dipole sum the FFT convolution must
// reproduce: the reference for correctness on small grids.
func directDemagField(g *geometry.Grid, f *field.VectorField, n int) (hd utils.Vec3) {
	vol := g.CellVolume()
	ni, nj, nk := g.Coords(n)
	for m := 0; m < g.NumCells(); m++ {
		mi, mj, mk := g.Coords(m)
		if m == n {
			hd = hd.Add(f.Dir(m).Scale(-1. / 3.))
			continue
		}
		r := utils.Vec3{
			float64(ni-mi) * g.Dx,
			float64(nj-mj) * g.Dy,
			float64(nk-mk) * g.Dz,
		}
		var (
			r2 = r.NormSq()
			c  = vol / (4 * math.Pi * r2 * r2 * math.Sqrt(r2))
			mm = f.Dir(m)
		)
		hd[0] += c * ((3*r[0]*r[0]-r2)*mm[0] + 3*r[0]*r[1]*mm[1] + 3*r[0]*r[2]*mm[2])
		hd[1] += c * (3*r[1]*r[0]*mm[0] + (3*r[1]*r[1]-r2)*mm[1] + 3*r[1]*r[2]*mm[2])
		hd[2] += c * (3*r[2]*r[0]*mm[0] + 3*r[2]*r[1]*mm[1] + (3*r[2]*r[2]-r2)*mm[2])
	}
	return
}

func TestDemagMatchesDirectSum(t *testing.T) {
	// non-cubic box and a nonuniform field exercise every kernel component
	g, err := geometry.NewGrid(utils.Vec3{}, utils.Vec3{2, 1.5, 1}, utils.Vec3{0.5, 0.375, 0.25})
	require.NoError(t, err)
	f, err := field.NewVectorField(g, wavy, 1.)
	require.NoError(t, err)
	d := NewDemag(g)
	d.Prepare(f)
	for n := 0; n < f.NumCells(); n += 7 {
		want := directDemagField(g, f, n)
		got := d.DemagField(n)
		for c := 0; c < 3; c++ {
			assert.InDelta(t, want[c], got[c], 1.e-10, "cell %d component %d", n, c)
		}
	}
}

func TestDemagUniformCube(t *testing.T) {
	// A uniformly magnetized cube has reduced demag energy density 1/3
	// regardless of direction: the summed dipole tensor is exactly -I/3 by
	// the traceless kernel plus cubic symmetry. This is the rotation
	// invariance guarantee for the kernel.
	g := cube(t, 2, 6)
	var energies []float64
	for _, dir := range []utils.Vec3{
		{0, 0, 1}, {1, 0, 0}, {0, 1, 0},
		{1, 1, 1}, {0.3, -0.4, 0.8},
	} {
		d := NewDemag(g)
		f, err := field.NewVectorField(g, uniform(dir), 1.)
		require.NoError(t, err)
		h := NewHamiltonian(g, d)
		energies = append(energies, h.TotalEnergy(f))
	}
	var (
		boxVolume = 8.
		want      = boxVolume / 3.
	)
	for _, E := range energies {
		assert.InDelta(t, want, E, 1.e-9)
	}
}

func TestDemagKernelCacheScaleInvariance(t *testing.T) {
	// Cubes of different edge length but equal cell counts share one kernel
	g1 := cube(t, 8, 8)
	g2 := cube(t, 8.5, 8)
	assert.Same(t, kernelFor(g1), kernelFor(g2))
	// Different aspect ratios do not
	g3, err := geometry.NewGrid(utils.Vec3{}, utils.Vec3{8, 8, 4}, utils.Vec3{1, 1, 0.5})
	require.NoError(t, err)
	g4 := cube(t, 8, 8)
	assert.NotSame(t, kernelFor(g3), kernelFor(g4))
}

func TestDemagEnergyScale(t *testing.T) {
	// Reduced energy density of a uniform cube is independent of the edge
	// length; total energy scales with the volume.
	var densities []float64
	for _, L := range []float64{4, 8} {
		g := cube(t, L, 6)
		f, err := field.NewVectorField(g, uniform(utils.Vec3{0, 0, 1}), 1.)
		require.NoError(t, err)
		h := NewHamiltonian(g, NewDemag(g))
		densities = append(densities, h.TotalEnergy(f)/(L*L*L))
	}
	assert.InDelta(t, densities[0], densities[1], 1.e-10)
}
