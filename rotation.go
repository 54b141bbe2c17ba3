package qestimate

import (
	"fmt"
	"math"

	"github.com/theapemachine/qestimate/paulis"
	"github.com/theapemachine/qestimate/quil"
)

type stage int

const (
	prepare stage = iota
	measure
)

// rotation is a single-axis rotation; an empty axis means no gate is needed.
type rotation struct {
	axis  string
	angle float64
}

/*
rotations maps each Pauli letter onto the gate that takes |0⟩ to its +1
eigenstate (prepare) or takes its eigenbasis onto the Z basis (measure).
*/
var rotations = [...][2]rotation{
	paulis.I: {},
	paulis.X: {prepare: {"RY", math.Pi / 2}, measure: {"RY", -math.Pi / 2}},
	paulis.Y: {prepare: {"RX", -math.Pi / 2}, measure: {"RX", math.Pi / 2}},
	paulis.Z: {},
}

func basisRotation(op paulis.Op, st stage, q int) ([]quil.Gate, error) {
	if int(op) >= len(rotations) {
		return nil, fmt.Errorf("%w: %v on qubit %d", ErrUnknownOp, op, q)
	}

	r := rotations[op][st]
	if r.axis == "" {
		return nil, nil
	}

	return []quil.Gate{{Name: r.axis, Params: []float64{r.angle}, Qubits: []int{q}}}, nil
}

// basisProgram rotates every qubit of the mapping, in the given qubit order.
func basisProgram(mapping map[int]paulis.Op, order []int, st stage) (*quil.Program, error) {
	prog := quil.New()
	for _, q := range order {
		gates, err := basisRotation(mapping[q], st, q)
		if err != nil {
			return nil, err
		}
		prog.Add(gates...)
	}
	return prog, nil
}
