package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/theapemachine/errnie"
)

var (
	configPath string
	outputPath string
	debug      bool
	cfg        *Config
)

var rootCmd = &cobra.Command{
	Use:   "qestimate",
	Short: "Group quantum experiments and estimate their expectation values",
	Long: `qestimate works on serialized experiment suites.

Subcommands:
  group    - merge experiments that can share one measurement setting
  measure  - estimate every experiment on the local simulator

Configuration is read from --config, then QESTIMATE_* environment
variables, then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cfg, err = loadConfig(configPath, cmd); err != nil {
			return err
		}

		dump("config", cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML, TOML or JSON config file")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "",
		"Write the result to this file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Dump parsed values to the log")

	rootCmd.AddCommand(groupCmd, measureCmd)
}

func dump(label string, v any) {
	if !debug {
		return
	}
	errnie.Info("%s:\n%s", label, spew.Sdump(v))
}
