package qestimate

import (
	"fmt"
	"strings"

	"github.com/theapemachine/qestimate/paulis"
)

// arrow separates the prepared state from the measured observable.
const arrow = "→"

/*
Experiment is one (prepare, measure) pair run after a shared ansatz program.
In names the single-qubit eigenstate each touched qubit is prepared in and
must have coefficient 1. Out is the observable to estimate and may carry a
real coefficient.
*/
type Experiment struct {
	In  paulis.Term
	Out paulis.Term
}

func NewExperiment(in, out paulis.Term) Experiment {
	return Experiment{In: in, Out: out}
}

// String is the canonical form "<in compact>→<out compact>".
func (e Experiment) String() string {
	return e.In.CompactString() + arrow + e.Out.CompactString()
}

// Equal compares canonical forms.
func (e Experiment) Equal(other Experiment) bool {
	return e.String() == other.String()
}

// ParseExperiment is the inverse of Experiment.String.
func ParseExperiment(s string) (Experiment, error) {
	inStr, outStr, found := strings.Cut(s, arrow)
	if !found || strings.Contains(outStr, arrow) {
		return Experiment{}, fmt.Errorf("%w: %q", ErrMalformedExperiment, s)
	}

	in, err := paulis.ParseCompact(inStr)
	if err != nil {
		return Experiment{}, fmt.Errorf("%w: %w", ErrMalformedExperiment, err)
	}

	out, err := paulis.ParseCompact(outStr)
	if err != nil {
		return Experiment{}, fmt.Errorf("%w: %w", ErrMalformedExperiment, err)
	}

	return Experiment{In: in, Out: out}, nil
}

func (e Experiment) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Experiment) UnmarshalText(text []byte) error {
	parsed, err := ParseExperiment(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func experimentsEqual(a, b []Experiment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
