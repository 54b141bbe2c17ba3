package qestimate

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/theapemachine/qestimate/paulis"
	"github.com/theapemachine/qestimate/quil"

	. "github.com/smartystreets/goconvey/convey"
)

// qubitProduct measures every product of I, X, Y, Z on qubits 0..n-1, qubit 0 varying slowest.
func qubitProduct(n int) []Experiment {
	outs := []paulis.Term{paulis.Identity()}
	for q := 0; q < n; q++ {
		letters := []paulis.Term{paulis.Identity(), paulis.SX(q), paulis.SY(q), paulis.SZ(q)}

		next := make([]paulis.Term, 0, len(outs)*len(letters))
		for _, prefix := range outs {
			for _, letter := range letters {
				next = append(next, prefix.Mul(letter))
			}
		}
		outs = next
	}

	expts := make([]Experiment, len(outs))
	for i, out := range outs {
		expts[i] = NewExperiment(paulis.Identity(), out)
	}
	return expts
}

func twoQubitProduct() []Experiment {
	return qubitProduct(2)
}

func assertGroupsCompatible(suite *ExperimentSuite) {
	for _, group := range suite.All() {
		for i := range group {
			for j := i + 1; j < len(group); j++ {
				So(Compatible(group[i], group[j]), ShouldBeTrue)
			}
		}
	}
}

func TestDiagonalInTPB(t *testing.T) {
	Convey("Given single-qubit letters", t, func() {
		Convey("Equal letters or an identity should be diagonal", func() {
			So(DiagonalInTPB(paulis.X, paulis.X), ShouldBeTrue)
			So(DiagonalInTPB(paulis.I, paulis.Y), ShouldBeTrue)
			So(DiagonalInTPB(paulis.Z, paulis.I), ShouldBeTrue)
		})

		Convey("Different non-identity letters should not be", func() {
			So(DiagonalInTPB(paulis.X, paulis.Z), ShouldBeFalse)
		})
	})

	Convey("Given pre-grouped experiments", t, func() {
		for _, group := range preGrouped() {
			for i := range group {
				for j := i + 1; j < len(group); j++ {
					So(AllQubitsDiagonalInTPB(group[i].In, group[j].In), ShouldBeTrue)
					So(AllQubitsDiagonalInTPB(group[i].Out, group[j].Out), ShouldBeTrue)
				}
			}
		}
	})
}

func TestGroupExperiments(t *testing.T) {
	Convey("Given four single-qubit observables on two qubits", t, func() {
		var flat []Experiment
		for _, group := range preGrouped() {
			flat = append(flat, group...)
		}
		suite := NewSuite(flat, quil.New(), []int{0, 1})
		grouped := GroupExperiments(suite)

		Convey("They should collapse into two groups", func() {
			So(suite.Len(), ShouldEqual, 4)
			So(grouped.Len(), ShouldEqual, 2)
			assertGroupsCompatible(grouped)
		})

		Convey("The input suite should be untouched", func() {
			So(suite.Len(), ShouldEqual, 4)
			So(grouped.Qubits, ShouldResemble, suite.Qubits)
			So(grouped.Program.Equal(suite.Program), ShouldBeTrue)
		})
	})

	Convey("Given disjoint observables with different bases", t, func() {
		suite := NewSuite([]Experiment{
			NewExperiment(paulis.Identity(), paulis.SX(0)),
			NewExperiment(paulis.Identity(), paulis.SX(1)),
		}, quil.New(), []int{0, 1})

		Convey("They should share a group", func() {
			So(GroupExperiments(suite).Len(), ShouldEqual, 1)
		})
	})

	Convey("Given conflicting bases on a shared qubit", t, func() {
		suite := NewSuite([]Experiment{
			NewExperiment(paulis.Identity(), paulis.SX(0)),
			NewExperiment(paulis.Identity(), paulis.SZ(0)),
		}, quil.New(), []int{0})

		Convey("They should never share a group", func() {
			So(GroupExperiments(suite).Len(), ShouldEqual, 2)
		})
	})

	Convey("Given conflicting preparations on a shared qubit", t, func() {
		suite := NewSuite([]Experiment{
			NewExperiment(paulis.SX(0), paulis.SZ(0)),
			NewExperiment(paulis.SY(0), paulis.SZ(0)),
		}, quil.New(), []int{0})

		Convey("They should never share a group", func() {
			So(GroupExperiments(suite).Len(), ShouldEqual, 2)
		})
	})

	Convey("Given every two-qubit product of I, X, Y, Z", t, func() {
		suite := NewSuite(twoQubitProduct(), quil.New(), []int{0, 1})

		Convey("Nine groups should cover all sixteen experiments", func() {
			grouped := GroupExperiments(suite)
			So(suite.Len(), ShouldEqual, 16)
			So(grouped.Len(), ShouldEqual, 9)
			So(len(grouped.Experiments()), ShouldEqual, 16)
			assertGroupsCompatible(grouped)
		})
	})

	Convey("Given every five-qubit product of I, X, Y, Z", t, func() {
		suite := NewSuite(qubitProduct(5), quil.New(), []int{0, 1, 2, 3, 4})

		Convey("Grouping should finish quickly and reach 3^5 groups", func() {
			start := time.Now()
			grouped := GroupExperiments(suite)

			So(time.Since(start), ShouldBeLessThan, 10*time.Second)
			So(suite.Len(), ShouldEqual, 1024)
			So(grouped.Len(), ShouldEqual, 243)
			So(len(grouped.Experiments()), ShouldEqual, 1024)
			assertGroupsCompatible(grouped)
		})
	})

	Convey("Given duplicated experiments", t, func() {
		zz := NewExperiment(paulis.Identity(), paulis.SZ(0).Mul(paulis.SZ(1)))
		x0 := NewExperiment(paulis.Identity(), paulis.SX(0))
		suite := NewSuite([]Experiment{zz, x0, zz, zz, x0}, quil.New(), []int{0, 1})

		Convey("Every copy should survive the regrouping", func() {
			grouped := GroupExperiments(suite)
			So(len(grouped.Experiments()), ShouldEqual, 5)
			So(grouped.Len(), ShouldEqual, 2)
			So(grouped.Group(0), ShouldHaveLength, 3)
			So(grouped.Group(1), ShouldHaveLength, 2)
		})
	})

	Convey("Given random suites", t, func() {
		rng := rand.New(rand.NewPCG(3, 5))

		Convey("Grouping should keep the count and only build compatible groups", func() {
			for round := 0; round < 5; round++ {
				ins := randomPaulis(rng, 3, 25)
				outs := randomPaulis(rng, 3, 25)

				var expts []Experiment
				for i := range outs {
					in, _ := paulis.NewTerm(1, map[int]paulis.Op{0: ins[i].Get(0)})
					expts = append(expts, NewExperiment(in, outs[i]))
				}

				suite := NewSuite(expts, quil.New(), []int{0, 1, 2})
				grouped := GroupExperiments(suite)

				So(len(grouped.Experiments()), ShouldEqual, len(expts))
				assertGroupsCompatible(grouped)
			}
		})
	})

	Convey("Given an already grouped suite", t, func() {
		suite := NewGroupedSuite(preGrouped(), quil.New(), []int{0, 1})

		Convey("It should be flattened and regrouped", func() {
			grouped := GroupExperiments(suite)
			So(len(grouped.Experiments()), ShouldEqual, 4)
			assertGroupsCompatible(grouped)
		})
	})
}

func TestGreedyCliqueGraph(t *testing.T) {
	Convey("Given a graph with a triangle and a pendant vertex", t, func() {
		g := NewGreedyCliqueGraph()
		for id := int64(0); id < 5; id++ {
			g.AddVertex(id)
		}
		g.AddEdge(1, 2)
		g.AddEdge(2, 3)
		g.AddEdge(1, 3)
		g.AddEdge(3, 4)
		g.AddEdge(4, 4)

		Convey("The largest clique should come first", func() {
			So(g.MaxClique(), ShouldResemble, []int64{1, 2, 3})
		})

		Convey("Equal degrees should go to the lower id", func() {
			g.RemoveVertices([]int64{3})
			So(g.MaxClique(), ShouldResemble, []int64{1, 2})
		})

		Convey("Removing vertices should shrink the graph", func() {
			g.RemoveVertices([]int64{1, 2, 3})
			So(g.Len(), ShouldEqual, 2)
			So(g.MaxClique(), ShouldResemble, []int64{0})
		})
	})
}
