package qvm

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/theapemachine/qestimate/quil"
	"gonum.org/v1/gonum/stat/distuv"
)

/*
Wavefunction is the full state vector of a register of qubits. Basis state
index i has qubit q set when bit q of i is set, so qubit 0 is the least
significant bit.
*/
type Wavefunction struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewWavefunction returns numQubits qubits in the |0...0⟩ ground state.
func NewWavefunction(numQubits int) *Wavefunction {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &Wavefunction{Amplitudes: amps, NumQubits: numQubits}
}

// matrix2 is a single-qubit unitary in row-major order.
type matrix2 [2][2]complex128

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)

	fixedGates = map[string]matrix2{
		"I": {{1, 0}, {0, 1}},
		"X": {{0, 1}, {1, 0}},
		"Y": {{0, -1i}, {1i, 0}},
		"Z": {{1, 0}, {0, -1}},
		"H": {{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}},
		"S": {{1, 0}, {0, 1i}},
		"T": {{1, 0}, {0, cmplx.Exp(1i * math.Pi / 4)}},
	}
)

func rotation(name string, theta float64) matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := math.Sin(theta / 2)

	switch name {
	case "RX":
		return matrix2{{c, complex(0, -s)}, {complex(0, -s), c}}
	case "RY":
		return matrix2{{c, complex(-s, 0)}, {complex(s, 0), c}}
	default:
		return matrix2{{cmplx.Exp(complex(0, -theta/2)), 0}, {0, cmplx.Exp(complex(0, theta/2))}}
	}
}

// Apply runs a single gate against the state.
func (wf *Wavefunction) Apply(g quil.Gate) error {
	for _, q := range g.Qubits {
		if q < 0 || q >= wf.NumQubits {
			return fmt.Errorf("%w: qubit %d outside %d-qubit register", ErrQubitRange, q, wf.NumQubits)
		}
	}

	switch g.Name {
	case "RX", "RY", "RZ":
		wf.applySingle(rotation(g.Name, g.Params[0]), g.Qubits[0])
	case "CNOT":
		wf.applyCNOT(g.Qubits[0], g.Qubits[1])
	case "CZ":
		wf.applyCZ(g.Qubits[0], g.Qubits[1])
	case "RESET":
		if len(g.Qubits) > 0 {
			return fmt.Errorf("%w: RESET of individual qubits", ErrUnsupportedGate)
		}
		wf.reset()
	default:
		m, ok := fixedGates[g.Name]
		if !ok {
			return fmt.Errorf("%w: %s", quil.ErrUnknownGate, g.Name)
		}
		wf.applySingle(m, g.Qubits[0])
	}

	return nil
}

// Run applies every instruction of the program in order.
func (wf *Wavefunction) Run(prog *quil.Program) error {
	for _, g := range prog.Instructions() {
		if err := wf.Apply(g); err != nil {
			return err
		}
	}
	return nil
}

func (wf *Wavefunction) applySingle(m matrix2, q int) {
	bit := 1 << q
	for i := range wf.Amplitudes {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := wf.Amplitudes[i], wf.Amplitudes[j]
		wf.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
		wf.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (wf *Wavefunction) applyCNOT(control, target int) {
	cbit, tbit := 1<<control, 1<<target
	for i := range wf.Amplitudes {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			wf.Amplitudes[i], wf.Amplitudes[j] = wf.Amplitudes[j], wf.Amplitudes[i]
		}
	}
}

func (wf *Wavefunction) applyCZ(a, b int) {
	mask := 1<<a | 1<<b
	for i := range wf.Amplitudes {
		if i&mask == mask {
			wf.Amplitudes[i] = -wf.Amplitudes[i]
		}
	}
}

// reset returns the whole register to the ground state.
func (wf *Wavefunction) reset() {
	clear(wf.Amplitudes)
	wf.Amplitudes[0] = 1
}

// Probabilities returns the Born-rule probability of each basis state.
func (wf *Wavefunction) Probabilities() []float64 {
	probs := make([]float64, len(wf.Amplitudes))
	total := 0.0

	for i, amp := range wf.Amplitudes {
		p := cmplx.Abs(amp)
		probs[i] = p * p
		total += probs[i]
	}

	if total > 0 {
		for i := range probs {
			probs[i] /= total
		}
	}

	return probs
}

// Sample draws n basis-state indices without disturbing the state.
func (wf *Wavefunction) Sample(n int, src rand.Source) []int {
	dist := distuv.NewCategorical(wf.Probabilities(), src)
	out := make([]int, n)
	for i := range out {
		out[i] = int(dist.Rand())
	}
	return out
}
