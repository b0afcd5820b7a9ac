package field

import (
	"errors"
	"fmt"

	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/utils"
)

// ErrInvalidParameter reports a malformed physical constant, such as a
// non-positive saturation magnetization or a zero anisotropy axis.
var ErrInvalidParameter = errors.New("invalid parameter")

// Initializer produces a (not necessarily normalized) magnetization
// direction for the cell centered at (x,y,z).
type Initializer func(x, y, z float64) utils.Vec3

// DefaultDegenerateThreshold is the squared-norm threshold below which an
// initializer return is treated as degenerate and replaced by the fallback
// direction. Loose on purpose: it catches vortex cores landing on cell
// centers without masking genuinely short directions. Configurable via
// WithDegenerateThreshold.
const DefaultDegenerateThreshold = 0.05

// Option configures VectorField construction.
type Option func(*VectorField)

// WithFallback sets the direction substituted when the initializer returns a
// near-zero vector. Defaults to +z.
func WithFallback(dir utils.Vec3) Option {
	return func(f *VectorField) { f.fallback = dir }
}

// WithDegenerateThreshold sets the squared-norm threshold for the fallback.
func WithDegenerateThreshold(t float64) Option {
	return func(f *VectorField) { f.threshold = t }
}

// VectorField stores one unit magnetization direction per grid cell plus the
// uniform saturation magnitude Ms. The stored vectors are always unit
// length; the physical magnetization of cell n is Dir(n) scaled by Ms.
type VectorField struct {
	Grid *geometry.Grid
	Ms   float64

	dirs          []utils.Vec3
	fallback      utils.Vec3
	threshold     float64
	fallbackCount int
}

// NewVectorField evaluates init at every cell center, normalizes the result
// and stores it. Near-zero initializer returns (squared norm at or below the
// configured threshold) are replaced by the configured fallback direction;
// the substitution count is reported on stdout and via FallbackCount so
// callers can observe the recovery.
func NewVectorField(g *geometry.Grid, init Initializer, Ms float64, opts ...Option) (f *VectorField, err error) {
	if Ms <= 0 {
		return nil, fmt.Errorf("%w: saturation magnetization Ms = %v must be positive",
			ErrInvalidParameter, Ms)
	}
	f = &VectorField{
		Grid:      g,
		Ms:        Ms,
		dirs:      make([]utils.Vec3, g.NumCells()),
		fallback:  utils.Vec3{0, 0, 1},
		threshold: DefaultDegenerateThreshold,
	}
	for _, opt := range opts {
		opt(f)
	}
	fb, ok := f.fallback.Normalized()
	if !ok {
		return nil, fmt.Errorf("%w: fallback direction has zero length", ErrInvalidParameter)
	}
	f.fallback = fb
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				c := g.CellCenter(i, j, k)
				m := init(c[0], c[1], c[2])
				if m.NormSq() <= f.threshold {
					f.dirs[g.Index(i, j, k)] = fb
					f.fallbackCount++
					continue
				}
				u, _ := m.Normalized()
				f.dirs[g.Index(i, j, k)] = u
			}
		}
	}
	if f.fallbackCount > 0 {
		fmt.Printf("Warning: degenerate initializer at %d of %d cells, using fallback direction %v\n",
			f.fallbackCount, g.NumCells(), fb)
	}
	return
}

// NumCells returns the cell count, matching the grid.
func (f *VectorField) NumCells() int { return len(f.dirs) }

// FallbackCount reports how many cells received the fallback direction
// during construction.
func (f *VectorField) FallbackCount() int { return f.fallbackCount }

// Dir returns the unit direction of cell n.
func (f *VectorField) Dir(n int) utils.Vec3 { return f.dirs[n] }

// At returns the unit direction of cell (i,j,k).
func (f *VectorField) At(i, j, k int) utils.Vec3 {
	return f.dirs[f.Grid.Index(i, j, k)]
}

// Vector returns the physical magnetization of cell n.
func (f *VectorField) Vector(n int) utils.Vec3 {
	return f.dirs[n].Scale(f.Ms)
}

// ApplyUpdate is the single mutation path, used by the minimizer. The input
// is renormalized so the unit-direction invariant holds after every step.
// Near-zero updates fall back to the previous direction.
func (f *VectorField) ApplyUpdate(n int, dir utils.Vec3) {
	if u, ok := dir.Normalized(); ok {
		f.dirs[n] = u
	}
}

// AverageDirection returns the mean of the unit directions (not itself a
// unit vector unless the field is uniform).
func (f *VectorField) AverageDirection() (avg utils.Vec3) {
	for _, m := range f.dirs {
		avg = avg.Add(m)
	}
	return avg.Scale(1. / float64(len(f.dirs)))
}

// TotalMoment returns the volume integral of the magnetization.
func (f *VectorField) TotalMoment() utils.Vec3 {
	return f.AverageDirection().Scale(f.Ms * f.Grid.CellVolume() * float64(f.NumCells()))
}

// Copy returns a deep copy sharing the (immutable) grid.
func (f *VectorField) Copy() (c *VectorField) {
	c = &VectorField{
		Grid:          f.Grid,
		Ms:            f.Ms,
		dirs:          make([]utils.Vec3, len(f.dirs)),
		fallback:      f.fallback,
		threshold:     f.threshold,
		fallbackCount: f.fallbackCount,
	}
	copy(c.dirs, f.dirs)
	return
}

// CopyInto copies directions from src, reusing storage. Grids must match.
func (f *VectorField) CopyInto(dst *VectorField) {
	copy(dst.dirs, f.dirs)
}
