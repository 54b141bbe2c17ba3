package paulis

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrUnknownOp     = errors.New("unknown pauli op")
	ErrMalformedTerm = errors.New("malformed compact pauli term")
	ErrNegativeQubit = errors.New("negative qubit index")
)

/*
Term is a tensor product of single-qubit Paulis scaled by a complex
coefficient. Qubits acted on by I are never stored, so two terms describing
the same operator always have the same compact form.

A Term is immutable: every operation returns a new value.
*/
type Term struct {
	ops  map[int]Op
	coef complex128
}

// NewTerm builds a term from an explicit qubit to Op mapping.
func NewTerm(coef complex128, ops map[int]Op) (Term, error) {
	t := Term{ops: make(map[int]Op, len(ops)), coef: coef}

	for q, op := range ops {
		if q < 0 {
			return Term{}, fmt.Errorf("%w: %d", ErrNegativeQubit, q)
		}
		if !op.Valid() {
			return Term{}, fmt.Errorf("%w: %v", ErrUnknownOp, op)
		}
		if op != I {
			t.ops[q] = op
		}
	}

	return t, nil
}

func single(op Op, q int) Term {
	return Term{ops: map[int]Op{q: op}, coef: 1}
}

// Identity returns the identity operator with coefficient 1.
func Identity() Term { return Term{coef: 1} }

func SX(q int) Term { return single(X, q) }
func SY(q int) Term { return single(Y, q) }
func SZ(q int) Term { return single(Z, q) }

// Coefficient returns the scalar in front of the operator.
func (t Term) Coefficient() complex128 {
	return t.coef
}

// Scale multiplies the coefficient by c.
func (t Term) Scale(c complex128) Term {
	return Term{ops: t.ops, coef: t.coef * c}
}

// Get returns the Op acting on qubit q, I when the qubit is untouched.
func (t Term) Get(q int) Op {
	return t.ops[q]
}

// Qubits returns the qubits with a non-identity factor in ascending order.
func (t Term) Qubits() []int {
	return slices.Sorted(maps.Keys(t.ops))
}

// Ops iterates over the non-identity factors in ascending qubit order.
func (t Term) Ops() iter.Seq2[int, Op] {
	return func(yield func(int, Op) bool) {
		for _, q := range t.Qubits() {
			if !yield(q, t.ops[q]) {
				return
			}
		}
	}
}

// Len is the number of non-identity factors.
func (t Term) Len() int {
	return len(t.ops)
}

// IsIdentity reports whether the operator has no non-identity factor.
func (t Term) IsIdentity() bool {
	return len(t.ops) == 0
}

// Mul returns the operator product t * other.
func (t Term) Mul(other Term) Term {
	out := Term{
		ops:  make(map[int]Op, len(t.ops)+len(other.ops)),
		coef: t.coef * other.coef,
	}

	for q, op := range t.ops {
		out.ops[q] = op
	}

	for _, q := range other.Qubits() {
		op, phase := mulOp(out.ops[q], other.ops[q])
		out.coef *= phase
		if op == I {
			delete(out.ops, q)
			continue
		}
		out.ops[q] = op
	}

	return out
}

// PauliString renders only the letters, e.g. X0Y3, or I for the identity.
func (t Term) PauliString() string {
	if t.IsIdentity() {
		return "I"
	}

	var b strings.Builder
	for q, op := range t.Ops() {
		b.WriteString(op.String())
		b.WriteString(strconv.Itoa(q))
	}
	return b.String()
}

// CompactString renders the term as coefficient*letters, e.g. (0.5+0i)*X0Z1.
func (t Term) CompactString() string {
	return strconv.FormatComplex(t.coef, 'g', -1, 128) + "*" + t.PauliString()
}

func (t Term) String() string {
	return t.CompactString()
}

// Equal compares the canonical compact forms.
func (t Term) Equal(other Term) bool {
	return t.CompactString() == other.CompactString()
}

// ParseCompact is the inverse of CompactString. A missing coefficient means 1.
func ParseCompact(s string) (Term, error) {
	s = strings.TrimSpace(s)
	coef := complex128(1)

	if coefStr, letters, found := strings.Cut(s, "*"); found {
		c, err := strconv.ParseComplex(strings.TrimSpace(coefStr), 128)
		if err != nil {
			return Term{}, fmt.Errorf("%w: coefficient %q: %v", ErrMalformedTerm, coefStr, err)
		}
		coef = c
		s = strings.TrimSpace(letters)
	}

	if s == "" {
		return Term{}, fmt.Errorf("%w: no operators", ErrMalformedTerm)
	}

	ops := make(map[int]Op)
	runes := []rune(s)

	for i := 0; i < len(runes); {
		op, err := ParseOp(runes[i])
		if err != nil {
			return Term{}, fmt.Errorf("%w: %v", ErrMalformedTerm, err)
		}
		i++

		start := i
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}

		if start == i {
			// a bare I is the identity; any other letter needs a qubit
			if op == I && len(runes) == 1 {
				break
			}
			return Term{}, fmt.Errorf("%w: %q has no qubit index", ErrMalformedTerm, op)
		}

		q, err := strconv.Atoi(string(runes[start:i]))
		if err != nil {
			return Term{}, fmt.Errorf("%w: %v", ErrMalformedTerm, err)
		}
		if _, dup := ops[q]; dup {
			return Term{}, fmt.Errorf("%w: qubit %d repeated", ErrMalformedTerm, q)
		}
		ops[q] = op
	}

	return NewTerm(coef, ops)
}
