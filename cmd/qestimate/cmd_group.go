package main

import (
	"github.com/spf13/cobra"
	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qestimate"
)

var groupCmd = &cobra.Command{
	Use:   "group SUITE",
	Short: "Merge compatible experiments into shared measurement groups",
	Long: `Read a serialized ExperimentSuite, group its experiments so that
each group can be measured with a single setting, and write the grouped
suite back out.

Examples:
  qestimate group suite.json
  qestimate group suite.json -o grouped.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGroup,
}

func runGroup(cmd *cobra.Command, args []string) error {
	suite, err := qestimate.ReadSuiteJSON(args[0])
	if err != nil {
		return err
	}
	dump("suite", suite)

	grouped := qestimate.GroupExperiments(suite)
	errnie.Info("grouped %d experiments into %d settings", len(suite.Experiments()), grouped.Len())
	errnie.Info("%s", grouped.Describe(cfg.Estimate.ProgramAbbrev, cfg.Estimate.GroupAbbrev))

	return writeOutput(cmd, grouped)
}

func writeOutput(cmd *cobra.Command, v any) error {
	if outputPath == "" {
		return qestimate.EncodeJSON(cmd.OutOrStdout(), v)
	}

	path, err := qestimate.WriteJSON(outputPath, v)
	if err != nil {
		return err
	}

	errnie.Info("wrote %s", path)
	return nil
}
