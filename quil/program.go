package quil

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrSyntax      = errors.New("program syntax error")
	ErrUnknownGate = errors.New("unknown gate")
)

/*
Program is an ordered list of gates. The zero value is an empty program
ready to use.
*/
type Program struct {
	instructions []Gate
}

// New creates a program holding the given gates.
func New(gates ...Gate) *Program {
	return (&Program{}).Add(gates...)
}

// Add appends gates in place and returns the program for chaining.
func (p *Program) Add(gates ...Gate) *Program {
	for _, g := range gates {
		p.instructions = append(p.instructions, Gate{
			Name:   g.Name,
			Params: slices.Clone(g.Params),
			Qubits: slices.Clone(g.Qubits),
		})
	}
	return p
}

// Concat returns a new program running p followed by others. Nil programs are skipped.
func (p *Program) Concat(others ...*Program) *Program {
	out := &Program{}
	if p != nil {
		out.Add(p.instructions...)
	}

	for _, other := range others {
		if other != nil {
			out.Add(other.instructions...)
		}
	}

	return out
}

// Len is the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.instructions)
}

// Instructions returns a copy of the instruction list.
func (p *Program) Instructions() []Gate {
	if p == nil {
		return nil
	}
	return New(p.instructions...).instructions
}

// Qubits returns every qubit referenced by the program, ascending.
func (p *Program) Qubits() []int {
	var qubits []int
	for _, g := range p.Instructions() {
		qubits = append(qubits, g.Qubits...)
	}
	slices.Sort(qubits)
	return slices.Compact(qubits)
}

// Out renders the program as text, one instruction per line.
func (p *Program) Out() string {
	var b strings.Builder
	for _, g := range p.Instructions() {
		b.WriteString(g.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *Program) String() string {
	return p.Out()
}

// Equal compares the rendered text of both programs.
func (p *Program) Equal(other *Program) bool {
	return p.Out() == other.Out()
}

// Parse reads program text as produced by Out. Blank lines and lines starting with # are skipped.
func Parse(text string) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	line := 0

	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		g, err := parseGate(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		prog.Add(g)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return prog, nil
}

func parseGate(raw string) (Gate, error) {
	g := Gate{}
	rest := raw

	if open := strings.IndexByte(rest, '('); open >= 0 {
		end := strings.IndexByte(rest, ')')
		if end < open {
			return g, fmt.Errorf("%w: unbalanced parentheses in %q", ErrSyntax, raw)
		}

		g.Name = strings.TrimSpace(rest[:open])
		for _, field := range strings.Split(rest[open+1:end], ",") {
			v, err := parseAngle(field)
			if err != nil {
				return g, fmt.Errorf("%w: bad parameter %q", ErrSyntax, field)
			}
			g.Params = append(g.Params, v)
		}
		rest = rest[end+1:]
	} else {
		name, tail, _ := strings.Cut(rest, " ")
		g.Name = name
		rest = tail
	}

	g.Name = strings.ToUpper(g.Name)

	for _, field := range strings.Fields(rest) {
		q, err := strconv.Atoi(field)
		if err != nil || q < 0 {
			return g, fmt.Errorf("%w: bad qubit %q", ErrSyntax, field)
		}
		g.Qubits = append(g.Qubits, q)
	}

	want, ok := arity[g.Name]
	if !ok {
		return g, fmt.Errorf("%w: %s", ErrUnknownGate, g.Name)
	}
	if (want[0] >= 0 && len(g.Qubits) != want[0]) || len(g.Params) != want[1] {
		return g, fmt.Errorf(
			"%w: %s takes %d qubits and %d params", ErrSyntax, g.Name, want[0], want[1],
		)
	}

	return g, nil
}
