package qestimate

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/theapemachine/qestimate/quil"
)

/*
ExperimentSuite is a shared ansatz program plus an ordered list of experiment
groups. Experiments that share a group are estimated from the same device
run, so every group must be diagonal in a single tensor product basis. That
invariant is not checked here; MeasureObservables rejects groups that break it.
*/
type ExperimentSuite struct {
	Program *quil.Program
	Qubits  []int

	groups [][]Experiment
}

// NewSuite wraps each experiment in its own singleton group.
func NewSuite(experiments []Experiment, program *quil.Program, qubits []int) *ExperimentSuite {
	groups := make([][]Experiment, 0, len(experiments))
	for _, e := range experiments {
		groups = append(groups, []Experiment{e})
	}
	return NewGroupedSuite(groups, program, qubits)
}

// NewGroupedSuite keeps the grouping exactly as given.
func NewGroupedSuite(groups [][]Experiment, program *quil.Program, qubits []int) *ExperimentSuite {
	if program == nil {
		program = quil.New()
	}

	s := &ExperimentSuite{
		Program: program,
		Qubits:  slices.Clone(qubits),
		groups:  make([][]Experiment, 0, len(groups)),
	}
	for _, g := range groups {
		s.groups = append(s.groups, slices.Clone(g))
	}
	return s
}

// Len is the number of groups.
func (s *ExperimentSuite) Len() int {
	return len(s.groups)
}

// Group returns a copy of group i.
func (s *ExperimentSuite) Group(i int) []Experiment {
	return slices.Clone(s.groups[i])
}

func (s *ExperimentSuite) SetGroup(i int, group []Experiment) {
	s.groups[i] = slices.Clone(group)
}

func (s *ExperimentSuite) DeleteGroup(i int) {
	s.groups = slices.Delete(s.groups, i, i+1)
}

// All iterates over the groups in order.
func (s *ExperimentSuite) All() iter.Seq2[int, []Experiment] {
	return func(yield func(int, []Experiment) bool) {
		for i, g := range s.groups {
			if !yield(i, slices.Clone(g)) {
				return
			}
		}
	}
}

// Backward iterates over the groups from last to first.
func (s *ExperimentSuite) Backward() iter.Seq2[int, []Experiment] {
	return func(yield func(int, []Experiment) bool) {
		for i := len(s.groups) - 1; i >= 0; i-- {
			if !yield(i, slices.Clone(s.groups[i])) {
				return
			}
		}
	}
}

// Index returns the position of the first group equal to group, or -1.
func (s *ExperimentSuite) Index(group []Experiment) int {
	return slices.IndexFunc(s.groups, func(g []Experiment) bool {
		return experimentsEqual(g, group)
	})
}

func (s *ExperimentSuite) Contains(group []Experiment) bool {
	return s.Index(group) >= 0
}

// Count returns how many groups equal group.
func (s *ExperimentSuite) Count(group []Experiment) int {
	n := 0
	for _, g := range s.groups {
		if experimentsEqual(g, group) {
			n++
		}
	}
	return n
}

// Append adds the experiments as one new group at the end.
func (s *ExperimentSuite) Append(experiments ...Experiment) {
	s.groups = append(s.groups, slices.Clone(experiments))
}

// Extend adds each given group at the end.
func (s *ExperimentSuite) Extend(groups ...[]Experiment) {
	for _, g := range groups {
		s.Append(g...)
	}
}

func (s *ExperimentSuite) Insert(i int, group []Experiment) {
	s.groups = slices.Insert(s.groups, i, slices.Clone(group))
}

// Pop removes and returns group i; a negative index counts from the end.
func (s *ExperimentSuite) Pop(i int) []Experiment {
	if i < 0 {
		i += len(s.groups)
	}
	g := s.groups[i]
	s.DeleteGroup(i)
	return g
}

// Remove deletes the first group equal to group and reports whether one was found.
func (s *ExperimentSuite) Remove(group []Experiment) bool {
	i := s.Index(group)
	if i < 0 {
		return false
	}
	s.DeleteGroup(i)
	return true
}

func (s *ExperimentSuite) Reverse() {
	slices.Reverse(s.groups)
}

// SortFunc orders the groups by cmp, keeping equal groups in their current order.
func (s *ExperimentSuite) SortFunc(cmp func(a, b []Experiment) int) {
	slices.SortStableFunc(s.groups, cmp)
}

// Experiments flattens the groups into one list.
func (s *ExperimentSuite) Experiments() []Experiment {
	var out []Experiment
	for _, g := range s.groups {
		out = append(out, g...)
	}
	return out
}

// Equal compares program text, qubits and every group.
func (s *ExperimentSuite) Equal(other *ExperimentSuite) bool {
	if other == nil {
		return false
	}

	return s.Program.Equal(other.Program) &&
		slices.Equal(s.Qubits, other.Qubits) &&
		slices.EqualFunc(s.groups, other.groups, experimentsEqual)
}

// abbreviate keeps the first and last halves of lines around a marker line.
func abbreviate(lines []string, maxLen int, marker func(excluded int) []string) []string {
	if maxLen <= 0 || len(lines) <= maxLen {
		return lines
	}

	firstN := maxLen / 2
	lastN := maxLen - firstN
	excluded := len(lines) - maxLen

	out := slices.Clone(lines[:firstN])
	out = append(out, marker(excluded)...)
	return append(out, lines[len(lines)-lastN:]...)
}

// AbbrevProgram joins the program's instructions with "; ", eliding the middle past maxLen.
func AbbrevProgram(program *quil.Program, maxLen int) string {
	lines := strings.Split(strings.TrimRight(program.Out(), "\n"), "\n")
	if program.Len() == 0 {
		lines = nil
	}
	return strings.Join(abbreviate(lines, maxLen, func(excluded int) []string {
		return []string{fmt.Sprintf("... %d instrs not shown ...", excluded)}
	}), "; ")
}

// ExperimentStrings renders one "i: e1, e2" line per group.
func (s *ExperimentSuite) ExperimentStrings() []string {
	lines := make([]string, 0, len(s.groups))
	for i, g := range s.groups {
		strs := make([]string, len(g))
		for j, e := range g {
			strs[j] = e.String()
		}
		lines = append(lines, fmt.Sprintf("%d: %s", i, strings.Join(strs, ", ")))
	}
	return lines
}

// ExperimentsString renders the groups, eliding the middle past abbrevAfter groups. Zero shows all.
func (s *ExperimentSuite) ExperimentsString(abbrevAfter int) string {
	return strings.Join(abbreviate(s.ExperimentStrings(), abbrevAfter, func(excluded int) []string {
		return []string{
			fmt.Sprintf("... %d not shown ...", excluded),
			"... use ExperimentsString(0) for all ...",
		}
	}), "\n")
}

// Describe renders the abbreviated program on the first line followed by the groups.
func (s *ExperimentSuite) Describe(programAbbrev, groupAbbrev int) string {
	return AbbrevProgram(s.Program, programAbbrev) + "\n" + s.ExperimentsString(groupAbbrev)
}

func (s *ExperimentSuite) String() string {
	cfg := NewConfig()
	return s.Describe(cfg.ProgramAbbrev, cfg.GroupAbbrev)
}
