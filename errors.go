package bezgrid

import (
	"errors"
	"fmt"
)

var (
	// ErrIndex is returned, or used as a panic value, when grid indices or
	// rectangles fall outside the grid.
	ErrIndex = errors.New("bezgrid: index out of range")

	// ErrState is returned when an operation is not permitted in the grid's
	// current state.
	ErrState = errors.New("bezgrid: invalid state")

	// ErrFrozen is returned when a grid whose control points were set
	// explicitly is edited in a way that would invalidate them. It wraps
	// ErrState.
	ErrFrozen = fmt.Errorf("%w: grid is frozen", ErrState)

	// ErrConsistency indicates a structurally invalid grid, such as a
	// declared spline that does not run through its vertices or a boundary
	// edge that matches no vertex.
	ErrConsistency = errors.New("bezgrid: inconsistent grid")

	// ErrTopology is returned when an operation needs a boundary the
	// surface does not have.
	ErrTopology = errors.New("bezgrid: no usable boundary")
)

func indexError(i, j int) error {
	return fmt.Errorf("%w: (%d, %d)", ErrIndex, i, j)
}
