package rank

import (
	"errors"
	"fmt"
	"math"
	"strings"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
)

// Defaults used by [DefaultOptions].
const (
	DefaultDamping    = 0.85
	DefaultIterations = 100
)

var (
	// ErrInvalidDamping is returned by [New] when the damping factor is NaN
	// or outside [0, 1].
	ErrInvalidDamping = errors.New("damping must be within [0, 1]")

	// ErrInvalidIterations is returned by [New] for a negative iteration count.
	ErrInvalidIterations = errors.New("iterations must not be negative")

	// ErrInvalidWorkers is returned by [New] for a negative worker count.
	ErrInvalidWorkers = errors.New("workers must not be negative")

	// ErrInvalidTolerance is returned by [New] for a negative or NaN tolerance.
	ErrInvalidTolerance = errors.New("tolerance must not be negative")

	// ErrUnknownDangling is returned by [ParseDangling] for unrecognised names.
	ErrUnknownDangling = errors.New("unknown dangling policy")
)

// Dangling selects what happens to the score of nodes without outgoing edges.
type Dangling int

const (
	// DanglingDrop discards the mass of dangling nodes.
	DanglingDrop Dangling = iota
	// DanglingUniform spreads the mass of dangling nodes evenly over all nodes.
	DanglingUniform
)

// String returns the policy name accepted by [ParseDangling].
func (d Dangling) String() string {
	switch d {
	case DanglingDrop:
		return "drop"
	case DanglingUniform:
		return "uniform"
	}
	return fmt.Sprintf("dangling(%d)", int(d))
}

// ParseDangling parses "drop" or "uniform" (case-insensitive). The empty
// string selects [DanglingDrop].
func ParseDangling(s string) (Dangling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DanglingDrop, nil
	case "uniform":
		return DanglingUniform, nil
	}
	return 0, apperr.Wrap(apperr.ErrCodeInvalidConfig, ErrUnknownDangling, "%q (want drop or uniform)", s)
}

// Options configures a [Propagator].
type Options struct {
	// Damping is the probability of following a link rather than jumping to
	// a random node. Must lie in [0, 1].
	Damping float64

	// Iterations is the number of propagation rounds. Zero returns the
	// uniform starting vector.
	Iterations int

	// Workers is the number of goroutines per iteration. Zero and one both
	// run serially.
	Workers int

	// Dangling selects the dangling-node policy.
	Dangling Dangling

	// Tolerance stops propagation early once the L1 change of an iteration
	// drops below it. Zero always runs exactly Iterations rounds.
	Tolerance float64
}

// DefaultOptions returns damping 0.85, 100 iterations, serial execution and
// the drop policy.
func DefaultOptions() Options {
	return Options{
		Damping:    DefaultDamping,
		Iterations: DefaultIterations,
		Workers:    1,
		Dangling:   DanglingDrop,
	}
}

// Validate reports the first invalid field as an INVALID_CONFIG error.
func (o Options) Validate() error {
	if math.IsNaN(o.Damping) || o.Damping < 0 || o.Damping > 1 {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, ErrInvalidDamping, "damping %v", o.Damping)
	}
	if o.Iterations < 0 {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, ErrInvalidIterations, "iterations %d", o.Iterations)
	}
	if o.Workers < 0 {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, ErrInvalidWorkers, "workers %d", o.Workers)
	}
	if math.IsNaN(o.Tolerance) || o.Tolerance < 0 {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, ErrInvalidTolerance, "tolerance %v", o.Tolerance)
	}
	if o.Dangling != DanglingDrop && o.Dangling != DanglingUniform {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, ErrUnknownDangling, "%v", o.Dangling)
	}
	return nil
}
