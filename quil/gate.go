package quil

import (
	"math"
	"strconv"
	"strings"
)

// Gate is a single instruction: a named operation, its angles and the qubits it acts on.
type Gate struct {
	Name   string
	Params []float64
	Qubits []int
}

func I(q int) Gate       { return Gate{Name: "I", Qubits: []int{q}} }
func X(q int) Gate       { return Gate{Name: "X", Qubits: []int{q}} }
func Y(q int) Gate       { return Gate{Name: "Y", Qubits: []int{q}} }
func Z(q int) Gate       { return Gate{Name: "Z", Qubits: []int{q}} }
func H(q int) Gate       { return Gate{Name: "H", Qubits: []int{q}} }
func S(q int) Gate       { return Gate{Name: "S", Qubits: []int{q}} }
func T(q int) Gate       { return Gate{Name: "T", Qubits: []int{q}} }
func CNOT(c, t int) Gate { return Gate{Name: "CNOT", Qubits: []int{c, t}} }
func CZ(c, t int) Gate   { return Gate{Name: "CZ", Qubits: []int{c, t}} }

func RX(angle float64, q int) Gate { return Gate{Name: "RX", Params: []float64{angle}, Qubits: []int{q}} }
func RY(angle float64, q int) Gate { return Gate{Name: "RY", Params: []float64{angle}, Qubits: []int{q}} }
func RZ(angle float64, q int) Gate { return Gate{Name: "RZ", Params: []float64{angle}, Qubits: []int{q}} }

// RESET with no qubits returns every qubit to the ground state.
func RESET(qubits ...int) Gate { return Gate{Name: "RESET", Qubits: qubits} }

// arity is the number of qubits and params each known gate takes. -1 means any.
var arity = map[string][2]int{
	"I":     {1, 0},
	"X":     {1, 0},
	"Y":     {1, 0},
	"Z":     {1, 0},
	"H":     {1, 0},
	"S":     {1, 0},
	"T":     {1, 0},
	"RX":    {1, 1},
	"RY":    {1, 1},
	"RZ":    {1, 1},
	"CNOT":  {2, 0},
	"CZ":    {2, 0},
	"RESET": {-1, 0},
}

/*
String renders the gate as one line of program text, e.g. "RY(1.5707963267948966) 0"
or "CNOT 0 1". Angles use the shortest representation that parses back exactly.
*/
func (g Gate) String() string {
	var b strings.Builder
	b.WriteString(g.Name)

	if len(g.Params) > 0 {
		b.WriteByte('(')
		for i, p := range g.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
		}
		b.WriteByte(')')
	}

	for _, q := range g.Qubits {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(q))
	}

	return b.String()
}

// parseAngle accepts plain floats and the forms pi, -pi, pi/N and -pi/N.
func parseAngle(s string) (float64, error) {
	s = strings.ReplaceAll(s, " ", "")

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	sign := 1.0
	rest := s
	if strings.HasPrefix(rest, "-") {
		sign = -1
		rest = rest[1:]
	}

	num, den, hasDen := strings.Cut(rest, "/")
	if num != "pi" {
		return 0, strconv.ErrSyntax
	}

	if !hasDen {
		return sign * math.Pi, nil
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, strconv.ErrSyntax
	}

	return sign * math.Pi / d, nil
}
