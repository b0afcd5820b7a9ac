// Package relax drives a constrained vector field toward a local minimum of
// a Hamiltonian by projected steepest descent with a backtracking line
// search. Every accepted step strictly reduces the total energy and every
// updated vector is renormalized, so the fixed magnitude invariant holds
// between iterations.
package relax

import (
	"context"
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gomag/energy"
	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/utils"
)

// Status is the minimizer state machine.
type Status int

const (
	Initialized Status = iota
	Iterating
	Converged
	MaxIterationsExceeded
	Aborted // context cancelled or deadline hit before convergence
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Iterating:
		return "Iterating"
	case Converged:
		return "Converged"
	case MaxIterationsExceeded:
		return "MaxIterationsExceeded"
	case Aborted:
		return "Aborted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// line search parameters
const (
	tauInit   = 0.05
	tauMin    = 1.e-12
	tauMax    = 1.0
	tauGrow   = 1.2
	tauShrink = 0.5
)

// Minimizer holds convergence parameters and transient iterate state for one
// relaxation call.
type Minimizer struct {
	H             *energy.Hamiltonian
	Tol           float64 // convergence threshold on the max per-cell direction change
	MaxIterations int
	LogFrequency  int // 0 disables progress output

	// Trace, when set, receives the total energy after every accepted step.
	Trace func(iteration int, energy float64)

	status     Status
	iterations int
}

func NewMinimizer(h *energy.Hamiltonian, tol float64, maxIterations int) (mn *Minimizer, err error) {
	if tol <= 0 {
		return nil, fmt.Errorf("%w: tolerance %v must be positive", field.ErrInvalidParameter, tol)
	}
	if maxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations %d must be positive", field.ErrInvalidParameter, maxIterations)
	}
	mn = &Minimizer{
		H:             h,
		Tol:           tol,
		MaxIterations: maxIterations,
		status:        Initialized,
	}
	return
}

func (mn *Minimizer) Status() Status  { return mn.status }
func (mn *Minimizer) Iterations() int { return mn.iterations }

// Relax mutates f in place toward a local energy minimum and returns the
// final total energy with the terminal status. MaxIterationsExceeded and
// Aborted are reported, not fatal: the field and energy are the best iterate
// reached, and callers feeding the energy into the critical length search
// must check the status first.
func (mn *Minimizer) Relax(ctx context.Context, f *field.VectorField) (E float64, status Status) {
	var (
		h       = mn.H
		N       = f.NumCells()
		pm      = utils.NewPartitionMap(runtime.NumCPU(), N)
		hEff    = make([]utils.Vec3, N)
		trial   = f.Copy()
		moveMax = make([]float64, pm.ParallelDegree)
		tau     = tauInit
	)
	mn.status = Iterating
	// TotalEnergy prepares the terms for f; from here every accepted trial
	// becomes f with the terms already prepared for it, so the per-cell
	// field reads below never need a second preparation pass.
	E = h.TotalEnergy(f)
	for mn.iterations = 0; mn.iterations < mn.MaxIterations; mn.iterations++ {
		if ctx.Err() != nil {
			mn.status = Aborted
			h.Prepare(f)
			return E, mn.status
		}
		pm.RunParallel(func(bn, kMin, kMax int) {
			for n := kMin; n < kMax; n++ {
				hEff[n] = h.EffectiveField(f, n)
			}
		})

		// Backtracking line search: shrink tau until the trial strictly
		// reduces the energy. Failure down to tauMin means f is at a fixed
		// point within line search resolution.
		var (
			ETrial   float64
			accepted bool
		)
		for tau >= tauMin {
			pm.RunParallel(func(bn, kMin, kMax int) {
				var max float64
				for n := kMin; n < kMax; n++ {
					m := f.Dir(n)
					hp := hEff[n].Sub(m.Scale(m.Dot(hEff[n]))) // project out the radial part
					trial.ApplyUpdate(n, m.Add(hp.Scale(tau)))
					if move := trial.Dir(n).Sub(m).Norm(); move > max {
						max = move
					}
				}
				moveMax[bn] = max
			})
			ETrial = h.TotalEnergy(trial)
			if ETrial < E {
				accepted = true
				break
			}
			tau *= tauShrink
		}
		if !accepted {
			mn.status = Converged
			// re-prepare the terms for the committed (unchanged) state
			h.Prepare(f)
			return E, mn.status
		}
		trial.CopyInto(f)
		E = ETrial
		if mn.Trace != nil {
			mn.Trace(mn.iterations, E)
		}
		if mn.LogFrequency > 0 && mn.iterations%mn.LogFrequency == 0 {
			fmt.Printf("iteration %6d, energy = %12.8f, tau = %8.2e, max_move = %8.2e\n",
				mn.iterations, E, tau, floats.Max(moveMax))
		}
		if floats.Max(moveMax) < mn.Tol {
			mn.status = Converged
			h.Prepare(f)
			return E, mn.status
		}
		if tau *= tauGrow; tau > tauMax {
			tau = tauMax
		}
	}
	mn.status = MaxIterationsExceeded
	h.Prepare(f)
	return E, mn.status
}

// Minimize builds a field from the initializer, relaxes it under the given
// terms and returns the relaxed field, its total energy and the terminal
// status.
func Minimize(ctx context.Context, g *geometry.Grid, terms []energy.Term,
	init field.Initializer, Ms, tol float64, maxIterations int,
	opts ...field.Option) (f *field.VectorField, E float64, status Status, err error) {
	f, err = field.NewVectorField(g, init, Ms, opts...)
	if err != nil {
		return nil, 0, Initialized, err
	}
	mn, err := NewMinimizer(energy.NewHamiltonian(g, terms...), tol, maxIterations)
	if err != nil {
		return nil, 0, Initialized, err
	}
	E, status = mn.Relax(ctx, f)
	return
}
