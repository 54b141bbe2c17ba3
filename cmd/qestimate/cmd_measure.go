package main

import (
	"github.com/spf13/cobra"
	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qestimate"
	"github.com/theapemachine/qestimate/connection"
	"github.com/theapemachine/qestimate/qvm"
)

var groupFirst bool

var measureCmd = &cobra.Command{
	Use:   "measure SUITE",
	Short: "Estimate every experiment in a suite on the local simulator",
	Long: `Run each measurement group of a serialized ExperimentSuite on the
built-in state-vector simulator and write one ExperimentResult per
experiment.

Examples:
  qestimate measure suite.json --shots 5000
  qestimate measure suite.json --group --active-reset -o results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

func init() {
	measureCmd.Flags().Int("shots", 0, "Shots per measurement group")
	measureCmd.Flags().Bool("active-reset", false, "Reset all qubits before each group")
	measureCmd.Flags().Uint64("seed", 0, "Simulator seed")
	measureCmd.Flags().BoolVar(&groupFirst, "group", false, "Group the suite before measuring")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	suite, err := qestimate.ReadSuiteJSON(args[0])
	if err != nil {
		return err
	}

	if groupFirst {
		suite = qestimate.GroupExperiments(suite)
	}
	dump("suite", suite)

	device := connection.NewResilientDevice(qvm.NewQVM(&cfg.QVM), &cfg.Connection)

	results, err := qestimate.MeasureAll(
		cmd.Context(), device, suite, cfg.Estimate.Shots,
		qestimate.WithActiveReset(cfg.Estimate.ActiveReset),
		qestimate.WithProgress(func(i, total int) {
			errnie.Info("measured group %d/%d", i+1, total)
		}),
	)
	dump("device metrics", device.Metrics().ExportMetrics())

	if err != nil {
		return err
	}

	return writeOutput(cmd, results)
}
