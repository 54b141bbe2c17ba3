package qestimate

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
)

/*
CliqueGraph is the graph surface the grouper needs. Vertices are identified by
int64 ids; the grouper assigns them in first-occurrence order of the distinct
experiments.
*/
type CliqueGraph interface {
	AddVertex(id int64)
	AddEdge(u, v int64)
	// MaxClique returns the vertices of one maximal clique in ascending order.
	MaxClique() []int64
	RemoveVertices(ids []int64)
	Len() int
}

/*
GreedyCliqueGraph grows one maximal clique per call. It seeds the clique with
the highest-degree vertex and then tries every other vertex by descending
degree, keeping each one adjacent to all members so far. Equal degrees go to
the lower id, which makes the cover deterministic.

Each call costs O(V log V + V·k) for a clique of size k, so peeling a whole
cover stays polynomial.
*/
type GreedyCliqueGraph struct {
	g *simple.UndirectedGraph
}

func NewGreedyCliqueGraph() *GreedyCliqueGraph {
	return &GreedyCliqueGraph{g: simple.NewUndirectedGraph()}
}

func (gc *GreedyCliqueGraph) AddVertex(id int64) {
	if gc.g.Node(id) == nil {
		gc.g.AddNode(simple.Node(id))
	}
}

// AddEdge connects u and v. Self loops are ignored.
func (gc *GreedyCliqueGraph) AddEdge(u, v int64) {
	if u == v {
		return
	}
	gc.g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
}

func (gc *GreedyCliqueGraph) MaxClique() []int64 {
	type vertex struct {
		id     int64
		degree int
	}

	var order []vertex
	nodes := gc.g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		order = append(order, vertex{id: id, degree: gc.g.From(id).Len()})
	}

	if len(order) == 0 {
		return nil
	}

	slices.SortFunc(order, func(a, b vertex) int {
		if c := cmp.Compare(b.degree, a.degree); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	clique := []int64{order[0].id}
	for _, candidate := range order[1:] {
		if candidate.degree < len(clique) {
			// sorted by degree, nothing further can join
			break
		}
		if gc.adjacentToAll(candidate.id, clique) {
			clique = append(clique, candidate.id)
		}
	}

	slices.Sort(clique)
	return clique
}

func (gc *GreedyCliqueGraph) adjacentToAll(id int64, clique []int64) bool {
	for _, member := range clique {
		if !gc.g.HasEdgeBetween(id, member) {
			return false
		}
	}
	return true
}

func (gc *GreedyCliqueGraph) RemoveVertices(ids []int64) {
	for _, id := range ids {
		gc.g.RemoveNode(id)
	}
}

func (gc *GreedyCliqueGraph) Len() int {
	return gc.g.Nodes().Len()
}
