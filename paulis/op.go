package paulis

import "fmt"

// Op is a single-qubit Pauli letter.
type Op uint8

const (
	I Op = iota
	X
	Y
	Z
)

var opNames = [...]string{I: "I", X: "X", Y: "Y", Z: "Z"}

func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
	return opNames[op]
}

// Valid reports whether op is one of I, X, Y or Z.
func (op Op) Valid() bool {
	return op <= Z
}

// ParseOp maps a letter onto its Op.
func ParseOp(r rune) (Op, error) {
	switch r {
	case 'I':
		return I, nil
	case 'X':
		return X, nil
	case 'Y':
		return Y, nil
	case 'Z':
		return Z, nil
	}

	return I, fmt.Errorf("%w: %q", ErrUnknownOp, r)
}

/*
mulOp multiplies two single-qubit Paulis, returning the resulting letter and
the phase picked up along the way. XY = iZ, YZ = iX, ZX = iY and the reversed
orders pick up -i.
*/
func mulOp(a, b Op) (Op, complex128) {
	switch {
	case a == I:
		return b, 1
	case b == I:
		return a, 1
	case a == b:
		return I, 1
	}

	// X, Y, Z are 1, 2, 3; the third letter is whatever remains.
	rest := Op(6 - int(a) - int(b))
	if (int(b)-int(a)+3)%3 == 1 {
		return rest, 1i
	}
	return rest, -1i
}
