package qestimate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/theapemachine/qestimate/quil"
)

const (
	suiteType  = "ExperimentSuite"
	resultType = "ExperimentResult"
)

type suiteJSON struct {
	Type        string         `json:"type"`
	Experiments [][]Experiment `json:"experiments"`
	Program     string         `json:"program"`
	Qubits      []int          `json:"qubits"`
}

func (s *ExperimentSuite) MarshalJSON() ([]byte, error) {
	groups := s.groups
	if groups == nil {
		groups = [][]Experiment{}
	}

	qubits := s.Qubits
	if qubits == nil {
		qubits = []int{}
	}

	return json.Marshal(suiteJSON{
		Type:        suiteType,
		Experiments: groups,
		Program:     s.Program.Out(),
		Qubits:      qubits,
	})
}

func (s *ExperimentSuite) UnmarshalJSON(data []byte) error {
	var raw suiteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Type != suiteType {
		return fmt.Errorf("%w: %q, want %q", ErrWrongType, raw.Type, suiteType)
	}

	program, err := quil.Parse(raw.Program)
	if err != nil {
		return fmt.Errorf("program: %w", err)
	}

	*s = *NewGroupedSuite(raw.Experiments, program, raw.Qubits)
	return nil
}

// EncodeJSON writes v as indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// DecodeSuite reads one serialized ExperimentSuite.
func DecodeSuite(r io.Reader) (*ExperimentSuite, error) {
	suite := &ExperimentSuite{}
	if err := json.NewDecoder(r).Decode(suite); err != nil {
		return nil, err
	}
	return suite, nil
}

// WriteJSON writes v to path as indented JSON, returning the path.
func WriteJSON(path string, v any) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := EncodeJSON(f, v); err != nil {
		f.Close()
		return "", err
	}

	return path, f.Close()
}

// ReadSuiteJSON loads a suite written by WriteJSON.
func ReadSuiteJSON(path string) (*ExperimentSuite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeSuite(f)
}
