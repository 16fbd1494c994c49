package model

import "errors"

// The closed set of failure kinds surfaced by the analytical core. Each
// operation either fully succeeds or fails with one of these; callers decide
// whether to retry with different inputs.
var (
	// ErrSchemaMismatch: two source files disagree on lat/lon/height coordinates.
	ErrSchemaMismatch = errors.New("coordinate grids disagree between source files")
	// ErrEmptyInput: no paths given, or a file contributed zero timestamps.
	ErrEmptyInput = errors.New("no input data")
	// ErrOutOfBounds: requested point lies outside the grid's coordinate extremes.
	ErrOutOfBounds = errors.New("point outside grid bounds")
	// ErrUnsupportedHeight: requested height is not a grid level.
	ErrUnsupportedHeight = errors.New("height not available in grid")
	// ErrDegenerateShear: no timestamp pair with usable wind at both heights.
	ErrDegenerateShear = errors.New("no valid timestamps for shear estimate")
	// ErrInsufficientData: too few speed values to fit a distribution.
	ErrInsufficientData = errors.New("not enough data to fit distribution")
	// ErrDegenerateDistribution: zero-variance sample, shape is ill-defined.
	ErrDegenerateDistribution = errors.New("all speed values identical")
	// ErrNoConvergence: iterative fit exhausted its iteration budget.
	ErrNoConvergence = errors.New("fit did not converge")
	// ErrEmptyPowerCurve: fewer than two points, no speed-power mapping.
	ErrEmptyPowerCurve = errors.New("power curve needs at least two points")
)
