package qestimate

import (
	"encoding/json"
	"fmt"
)

// ExperimentResult is the estimated expectation value of one experiment and its standard error.
type ExperimentResult struct {
	Experiment  Experiment
	Expectation float64
	StdDev      float64
}

func (r ExperimentResult) String() string {
	return fmt.Sprintf("%v: %v +- %v", r.Experiment, r.Expectation, r.StdDev)
}

// MarshalJSON writes the result record. There is no matching decoder.
func (r ExperimentResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string     `json:"type"`
		Experiment  Experiment `json:"experiment"`
		Expectation float64    `json:"expectation"`
		StdDev      float64    `json:"stddev"`
	}{
		Type:        resultType,
		Experiment:  r.Experiment,
		Expectation: r.Expectation,
		StdDev:      r.StdDev,
	})
}
