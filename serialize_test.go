package qestimate

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theapemachine/qestimate/paulis"
	"github.com/theapemachine/qestimate/quil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSuiteJSON(t *testing.T) {
	Convey("Given a grouped suite", t, func() {
		suite := NewGroupedSuite(preGrouped(), quil.New(quil.X(0), quil.Y(1)), []int{0, 1})

		Convey("It should round-trip through a file", func() {
			path, err := WriteJSON(filepath.Join(t.TempDir(), "suite.json"), suite)
			So(err, ShouldBeNil)

			back, err := ReadSuiteJSON(path)
			So(err, ShouldBeNil)
			So(back.Equal(suite), ShouldBeTrue)
			So(back.Program.Out(), ShouldEqual, "X 0\nY 1\n")
			So(back.Qubits, ShouldResemble, []int{0, 1})
		})

		Convey("The document should carry the type tag and experiment strings", func() {
			var buf bytes.Buffer
			So(EncodeJSON(&buf, suite), ShouldBeNil)

			var doc map[string]any
			So(json.Unmarshal(buf.Bytes(), &doc), ShouldBeNil)
			So(doc["type"], ShouldEqual, "ExperimentSuite")
			So(doc["program"], ShouldEqual, "X 0\nY 1\n")

			groups := doc["experiments"].([]any)
			So(groups, ShouldHaveLength, 2)
			So(groups[0].([]any)[0], ShouldEqual, "(1+0i)*I→(1+0i)*X0")
		})

		Convey("An empty suite should serialize empty arrays", func() {
			var buf bytes.Buffer
			So(EncodeJSON(&buf, NewSuite(nil, nil, nil)), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, `"experiments": []`)
			So(buf.String(), ShouldContainSubstring, `"qubits": []`)
		})
	})

	Convey("Given a serialized document", t, func() {
		Convey("A wrong type tag should be rejected", func() {
			_, err := DecodeSuite(strings.NewReader(`{"type": "ExperimentResult"}`))
			So(errors.Is(err, ErrWrongType), ShouldBeTrue)
		})

		Convey("A bad experiment string should be rejected", func() {
			_, err := DecodeSuite(strings.NewReader(
				`{"type": "ExperimentSuite", "experiments": [["nope"]], "program": "", "qubits": []}`,
			))
			So(errors.Is(err, ErrMalformedExperiment), ShouldBeTrue)
		})

		Convey("A bad program should be rejected", func() {
			_, err := DecodeSuite(strings.NewReader(
				`{"type": "ExperimentSuite", "experiments": [], "program": "FOO 1", "qubits": []}`,
			))
			So(errors.Is(err, quil.ErrUnknownGate), ShouldBeTrue)
		})
	})
}

func TestResultJSON(t *testing.T) {
	Convey("Given an experiment result", t, func() {
		er := ExperimentResult{
			Experiment:  NewExperiment(paulis.SX(0), paulis.SZ(0)),
			Expectation: 0.9,
			StdDev:      0.05,
		}

		Convey("It should serialize as a typed record", func() {
			data, err := json.Marshal(er)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual,
				`{"type":"ExperimentResult","experiment":"(1+0i)*X0→(1+0i)*Z0","expectation":0.9,"stddev":0.05}`)
		})
	})
}
