package qestimate

import "errors"

var (
	// ErrImproperGrouping means two experiments in one group disagree on a qubit's basis.
	ErrImproperGrouping = errors.New("improper grouping of operators")
	// ErrUnknownOp means a basis rotation was requested for a letter outside I, X, Y, Z.
	ErrUnknownOp = errors.New("unknown pauli op")
	// ErrInvalidCoefficient means an in_operator carries a coefficient other than 1.
	ErrInvalidCoefficient = errors.New("in_operator should specify a state and cannot have a coefficient")
	// ErrComplexCoefficient means an out_operator has a non-negligible imaginary coefficient.
	ErrComplexCoefficient = errors.New("out_operator has a complex coefficient")
	// ErrDevice wraps any failure returned by the device.
	ErrDevice = errors.New("device run failed")
	// ErrBadShape means the device returned a bit matrix of the wrong shape.
	ErrBadShape = errors.New("device returned a malformed bit matrix")
	// ErrMalformedExperiment means an experiment string could not be parsed.
	ErrMalformedExperiment = errors.New("malformed experiment string")
	// ErrWrongType means a serialized object carried an unexpected type tag.
	ErrWrongType = errors.New("unexpected serialized type")
)

// ErrInvalidShots means a non-positive shot count was requested.
var ErrInvalidShots = errors.New("shot count must be positive")
