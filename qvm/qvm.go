package qvm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qestimate/quil"
)

var (
	ErrQubitRange      = errors.New("qubit out of range")
	ErrUnsupportedGate = errors.New("unsupported gate")
	ErrTooManyQubits   = errors.New("too many qubits to simulate")
	ErrShots           = errors.New("shot count must not be negative")
)

// MaxQubits bounds the state vector at 2^MaxQubits amplitudes.
const MaxQubits = 24

type Config struct {
	Seed uint64 `mapstructure:"seed"`
}

func NewConfig() *Config {
	return &Config{
		Seed: uint64(time.Now().UnixNano()),
	}
}

/*
QVM is a noiseless state-vector simulator. Each RunAndMeasure call simulates
the program once and samples every shot from the final state, which is
equivalent to re-running a measurement-free program shot by shot.

A QVM is safe for concurrent use.
*/
type QVM struct {
	mu     sync.Mutex
	rng    *rand.PCG
	config *Config
}

// NewQVM creates a simulator; a nil config uses NewConfig.
func NewQVM(config *Config) *QVM {
	if config == nil {
		config = NewConfig()
	}

	errnie.Info("NewQVM - seed %d, max qubits %d", config.Seed, MaxQubits)

	return &QVM{
		rng:    rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15),
		config: config,
	}
}

// Wavefunction simulates the program from the ground state and returns the final state.
func (vm *QVM) Wavefunction(prog *quil.Program, extraQubits ...int) (*Wavefunction, error) {
	n := 1
	if qs := append(prog.Qubits(), extraQubits...); len(qs) > 0 {
		n = slices.Max(qs) + 1
	}

	if n > MaxQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, n, MaxQubits)
	}

	wf := NewWavefunction(n)
	if err := wf.Run(prog); err != nil {
		return nil, err
	}

	return wf, nil
}

/*
RunAndMeasure runs the program and measures the listed qubits in the
computational basis. The result has one row per shot and one column per
entry of qubits, in the same order.
*/
func (vm *QVM) RunAndMeasure(
	ctx context.Context, prog *quil.Program, qubits []int, shots int,
) ([][]uint8, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if shots < 0 {
		return nil, fmt.Errorf("%w: %d", ErrShots, shots)
	}

	for _, q := range qubits {
		if q < 0 {
			return nil, fmt.Errorf("%w: %d", ErrQubitRange, q)
		}
	}

	wf, err := vm.Wavefunction(prog, qubits...)
	if err != nil {
		return nil, err
	}

	vm.mu.Lock()
	samples := wf.Sample(shots, vm.rng)
	vm.mu.Unlock()

	bits := make([][]uint8, shots)
	for shot, state := range samples {
		row := make([]uint8, len(qubits))
		for col, q := range qubits {
			row[col] = uint8((state >> q) & 1)
		}
		bits[shot] = row
	}

	return bits, nil
}
