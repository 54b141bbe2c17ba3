package qestimate

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"math"
	"math/cmplx"
	"slices"

	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qestimate/paulis"
	"github.com/theapemachine/qestimate/quil"
	"gonum.org/v1/gonum/stat"
)

// imagTolerance is the largest imaginary coefficient part treated as zero.
const imagTolerance = 1e-8

/*
Device runs a program and measures the listed qubits in the computational
basis. The result holds one row per shot and one column per entry of qubits,
in that order, with values 0 or 1.
*/
type Device interface {
	RunAndMeasure(ctx context.Context, program *quil.Program, qubits []int, shots int) ([][]uint8, error)
}

type measureOptions struct {
	progress    func(i, total int)
	activeReset bool
}

// MeasureOption configures MeasureObservables.
type MeasureOption func(*measureOptions)

// WithProgress is called after each group runs with the group index and the group count.
func WithProgress(fn func(i, total int)) MeasureOption {
	return func(o *measureOptions) {
		o.progress = fn
	}
}

// WithActiveReset starts every run with a RESET instead of waiting for passive relaxation.
func WithActiveReset(on bool) MeasureOption {
	return func(o *measureOptions) {
		o.activeReset = on
	}
}

/*
diagonalMapping merges the non-identity factors of every term into one
qubit to Op mapping, failing if two terms disagree on a qubit. The qubits are
returned in ascending order.
*/
func diagonalMapping(terms []paulis.Term) (map[int]paulis.Op, []int, error) {
	mapping := make(map[int]paulis.Op)

	for _, t := range terms {
		for q, op := range t.Ops() {
			if have, ok := mapping[q]; ok && have != op {
				return nil, nil, fmt.Errorf("%w: qubit %d is both %v and %v", ErrImproperGrouping, q, have, op)
			}
			mapping[q] = op
		}
	}

	return mapping, slices.Sorted(maps.Keys(mapping)), nil
}

/*
groupProgram builds the full program for one group: optional RESET, the
preparation rotations, the ansatz, then the measurement rotations. It also
returns the qubits to read out.
*/
func groupProgram(
	group []Experiment, ansatz *quil.Program, activeReset bool,
) (*quil.Program, []int, error) {
	ins := make([]paulis.Term, len(group))
	outs := make([]paulis.Term, len(group))
	for i, e := range group {
		ins[i], outs[i] = e.In, e.Out
	}

	inMapping, inOrder, err := diagonalMapping(ins)
	if err != nil {
		return nil, nil, fmt.Errorf("in_operator: %w", err)
	}

	outMapping, outOrder, err := diagonalMapping(outs)
	if err != nil {
		return nil, nil, fmt.Errorf("out_operator: %w", err)
	}

	total := quil.New()
	if activeReset {
		total.Add(quil.RESET())
	}

	prep, err := basisProgram(inMapping, inOrder, prepare)
	if err != nil {
		return nil, nil, err
	}

	meas, err := basisProgram(outMapping, outOrder, measure)
	if err != nil {
		return nil, nil, err
	}

	return total.Concat(prep, ansatz, meas), outOrder, nil
}

/*
MeasureObservables estimates every experiment of the suite, one device run per
group. The sequence is lazy: a group is only built and run when the consumer
asks for its first result, and breaking out of the range loop stops all
further device work. Results come out in suite order, one per experiment,
duplicates included.

The first error is yielded with a zero result and ends the sequence. Results
already yielded stay valid.
*/
func MeasureObservables(
	ctx context.Context, device Device, suite *ExperimentSuite, nShots int, opts ...MeasureOption,
) iter.Seq2[ExperimentResult, error] {
	options := &measureOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return func(yield func(ExperimentResult, error) bool) {
		fail := func(err error) {
			yield(ExperimentResult{}, err)
		}

		if nShots <= 0 {
			fail(fmt.Errorf("%w: %d", ErrInvalidShots, nShots))
			return
		}

		total := suite.Len()

		for i, group := range suite.All() {
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}

			errnie.Info(
				"MeasureObservables - collecting bitstrings for group %d/%d: %d experiments",
				i+1, total, len(group),
			)

			prog, qubits, err := groupProgram(group, suite.Program, options.activeReset)
			if err != nil {
				fail(fmt.Errorf("group %d: %w", i, err))
				return
			}

			bits, err := device.RunAndMeasure(ctx, prog, qubits, nShots)
			if err != nil {
				fail(fmt.Errorf("%w: group %d: %w", ErrDevice, i, err))
				return
			}

			if options.progress != nil {
				options.progress(i, total)
			}

			eigenvalues, err := eigenvalueColumns(bits, qubits, nShots)
			if err != nil {
				fail(fmt.Errorf("group %d: %w", i, err))
				return
			}

			for _, e := range group {
				result, err := estimate(e, eigenvalues, nShots)
				if err != nil {
					fail(err)
					return
				}
				if !yield(result, nil) {
					return
				}
			}
		}
	}
}

// MeasureAll drains MeasureObservables, returning the results gathered before any error.
func MeasureAll(
	ctx context.Context, device Device, suite *ExperimentSuite, nShots int, opts ...MeasureOption,
) ([]ExperimentResult, error) {
	var results []ExperimentResult
	for result, err := range MeasureObservables(ctx, device, suite, nShots, opts...) {
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// eigenvalueColumns turns each measured qubit's bits into ±1 eigenvalues: 0 → +1, 1 → -1.
// A group of identity observables reads no qubits, so its bits are never inspected.
func eigenvalueColumns(bits [][]uint8, qubits []int, nShots int) (map[int][]float64, error) {
	if len(qubits) == 0 {
		return map[int][]float64{}, nil
	}

	if len(bits) != nShots {
		return nil, fmt.Errorf("%w: %d rows for %d shots", ErrBadShape, len(bits), nShots)
	}

	columns := make(map[int][]float64, len(qubits))
	for _, q := range qubits {
		columns[q] = make([]float64, nShots)
	}

	for shot, row := range bits {
		if len(row) != len(qubits) {
			return nil, fmt.Errorf("%w: %d columns for %d qubits", ErrBadShape, len(row), len(qubits))
		}
		for col, q := range qubits {
			columns[q][shot] = 1 - 2*float64(row[col])
		}
	}

	return columns, nil
}

/*
estimate computes the mean of coefficient × product of eigenvalues over the
shots, and the standard error sqrt(var / nShots) using the population
variance of the per-shot values.
*/
func estimate(e Experiment, eigenvalues map[int][]float64, nShots int) (ExperimentResult, error) {
	if e.Out.IsIdentity() {
		return ExperimentResult{Experiment: e, Expectation: 1, StdDev: 0}, nil
	}

	if e.In.Coefficient() != 1 {
		return ExperimentResult{}, fmt.Errorf("%w: %v", ErrInvalidCoefficient, e)
	}

	coef := e.Out.Coefficient()
	if math.Abs(imag(coef)) > imagTolerance || cmplx.IsNaN(coef) {
		return ExperimentResult{}, fmt.Errorf("%w: %v", ErrComplexCoefficient, e)
	}

	values := make([]float64, nShots)
	for i := range values {
		values[i] = real(coef)
	}

	for q := range e.Out.Ops() {
		column := eigenvalues[q]
		for i := range values {
			values[i] *= column[i]
		}
	}

	mean, variance := stat.PopMeanVariance(values, nil)

	return ExperimentResult{
		Experiment:  e,
		Expectation: mean,
		StdDev:      math.Sqrt(variance / float64(nShots)),
	}, nil
}
