package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gomag/utils"
)

// ErrInvalidGeometry reports a Grid construction that cannot produce a
// positive-volume box with an integral number of cells per axis.
var ErrInvalidGeometry = errors.New("invalid geometry")

// roundTol is the relative tolerance used when checking that the box extent
// is an integral multiple of the cell size on each axis.
const roundTol = 1.e-6

// Grid is an immutable discretized rectangular domain: an origin corner, the
// opposite corner, the cell size per axis and the derived cell counts.
type Grid struct {
	Origin, Corner utils.Vec3
	Dx, Dy, Dz     float64
	Nx, Ny, Nz     int
}

// NewGrid builds a grid from two corner points and a cell size vector.
func NewGrid(origin, corner, cellSize utils.Vec3) (g *Grid, err error) {
	for d := 0; d < 3; d++ {
		if cellSize[d] <= 0 {
			return nil, fmt.Errorf("%w: cell size[%d] = %v must be positive",
				ErrInvalidGeometry, d, cellSize[d])
		}
		if corner[d] <= origin[d] {
			return nil, fmt.Errorf("%w: corner[%d] = %v must exceed origin[%d] = %v",
				ErrInvalidGeometry, d, corner[d], d, origin[d])
		}
	}
	var (
		n      [3]int
		extent = corner.Sub(origin)
	)
	for d := 0; d < 3; d++ {
		count := extent[d] / cellSize[d]
		rounded := math.Round(count)
		if rounded < 1 || math.Abs(count-rounded) > roundTol*math.Max(1, count) {
			return nil, fmt.Errorf("%w: extent[%d] = %v is not an integral multiple of cell size %v",
				ErrInvalidGeometry, d, extent[d], cellSize[d])
		}
		n[d] = int(rounded)
	}
	g = &Grid{
		Origin: origin,
		Corner: corner,
		Dx:     cellSize[0], Dy: cellSize[1], Dz: cellSize[2],
		Nx: n[0], Ny: n[1], Nz: n[2],
	}
	return
}

// NewCube builds an L x L x L grid with n cells per edge, origin at zero.
func NewCube(L float64, n int) (g *Grid, err error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: cell count %d must be positive", ErrInvalidGeometry, n)
	}
	h := L / float64(n)
	return NewGrid(utils.Vec3{}, utils.Vec3{L, L, L}, utils.Vec3{h, h, h})
}

func (g *Grid) NumCells() int {
	return g.Nx * g.Ny * g.Nz
}

func (g *Grid) CellVolume() float64 {
	return g.Dx * g.Dy * g.Dz
}

// EdgeLengths returns the physical extent of the box per axis.
func (g *Grid) EdgeLengths() utils.Vec3 {
	return g.Corner.Sub(g.Origin)
}

// Center returns the geometric center of the box.
func (g *Grid) Center() utils.Vec3 {
	return g.Origin.Add(g.Corner).Scale(0.5)
}

// Index maps (i,j,k) to the flat cell index, i fastest.
func (g *Grid) Index(i, j, k int) int {
	return i + g.Nx*(j+g.Ny*k)
}

// Coords inverts Index.
func (g *Grid) Coords(n int) (i, j, k int) {
	i = n % g.Nx
	j = (n / g.Nx) % g.Ny
	k = n / (g.Nx * g.Ny)
	return
}

// CellCenter returns the coordinate of the center of cell (i,j,k).
func (g *Grid) CellCenter(i, j, k int) utils.Vec3 {
	return utils.Vec3{
		g.Origin[0] + (float64(i)+0.5)*g.Dx,
		g.Origin[1] + (float64(j)+0.5)*g.Dy,
		g.Origin[2] + (float64(k)+0.5)*g.Dz,
	}
}

func (g *Grid) String() string {
	return fmt.Sprintf("grid %dx%dx%d, cell %gx%gx%g, box [%v -> %v]",
		g.Nx, g.Ny, g.Nz, g.Dx, g.Dy, g.Dz, g.Origin, g.Corner)
}
