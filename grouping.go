package qestimate

import (
	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qestimate/paulis"
)

// DiagonalInTPB reports whether two single-qubit Paulis share an eigenbasis: equal, or one is I.
func DiagonalInTPB(a, b paulis.Op) bool {
	return a == b || a == paulis.I || b == paulis.I
}

// AllQubitsDiagonalInTPB checks DiagonalInTPB on every qubit touched by either term.
func AllQubitsDiagonalInTPB(t1, t2 paulis.Term) bool {
	for q, op := range t1.Ops() {
		if !DiagonalInTPB(op, t2.Get(q)) {
			return false
		}
	}
	// qubits only t2 touches meet an I in t1
	return true
}

// Compatible reports whether two experiments can share one device run.
func Compatible(e1, e2 Experiment) bool {
	return AllQubitsDiagonalInTPB(e1.In, e2.In) && AllQubitsDiagonalInTPB(e1.Out, e2.Out)
}

/*
ConstructTPBGraph adds one vertex per distinct experiment (by canonical string)
and an edge between every compatible pair. It returns the distinct experiments
indexed by vertex id together with how often each occurred.
*/
func ConstructTPBGraph(experiments []Experiment, graph CliqueGraph) ([]Experiment, []int) {
	var (
		distinct []Experiment
		counts   []int
		index    = make(map[string]int, len(experiments))
	)

	for _, e := range experiments {
		key := e.String()
		if i, ok := index[key]; ok {
			counts[i]++
			continue
		}
		index[key] = len(distinct)
		graph.AddVertex(int64(len(distinct)))
		distinct = append(distinct, e)
		counts = append(counts, 1)
	}

	for i := range distinct {
		for j := i + 1; j < len(distinct); j++ {
			if Compatible(distinct[i], distinct[j]) {
				graph.AddEdge(int64(i), int64(j))
			}
		}
	}

	return distinct, counts
}

// GroupExperiments groups a suite with the default greedy clique cover.
func GroupExperiments(suite *ExperimentSuite) *ExperimentSuite {
	return GroupExperimentsWith(suite, NewGreedyCliqueGraph())
}

/*
GroupExperimentsWith regroups every experiment of the suite so that each group
is diagonal in one tensor product basis, trying to use as few groups as
possible. Cliques are peeled off the compatibility graph one at a time until
no vertex is left. Duplicated experiments stay together and keep their
multiplicity. Any existing grouping is discarded, and the input suite is left
untouched.

The graph must be empty.
*/
func GroupExperimentsWith(suite *ExperimentSuite, graph CliqueGraph) *ExperimentSuite {
	experiments := suite.Experiments()
	distinct, counts := ConstructTPBGraph(experiments, graph)

	var groups [][]Experiment
	for graph.Len() > 0 {
		clique := graph.MaxClique()
		if len(clique) == 0 {
			break
		}

		group := make([]Experiment, 0, len(clique))
		for _, id := range clique {
			for range counts[id] {
				group = append(group, distinct[id])
			}
		}

		groups = append(groups, group)
		graph.RemoveVertices(clique)
	}

	errnie.Info(
		"GroupExperiments - %d experiments, %d distinct, %d groups",
		len(experiments), len(distinct), len(groups),
	)

	return NewGroupedSuite(groups, suite.Program, suite.Qubits)
}
