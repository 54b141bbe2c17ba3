package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/qestimate"
	"github.com/theapemachine/qestimate/connection"
	"github.com/theapemachine/qestimate/qvm"
)

type Config struct {
	Estimate   qestimate.Config  `mapstructure:"estimate"`
	Connection connection.Config `mapstructure:"connection"`
	QVM        qvm.Config        `mapstructure:"qvm"`
}

// flagBindings maps config keys to the command-line flags that override them.
var flagBindings = map[string]string{
	"estimate.shots":        "shots",
	"estimate.active_reset": "active-reset",
	"qvm.seed":              "seed",
}

func setDefaults(v *viper.Viper) {
	estimate := qestimate.NewConfig()
	v.SetDefault("estimate.shots", estimate.Shots)
	v.SetDefault("estimate.active_reset", estimate.ActiveReset)
	v.SetDefault("estimate.program_abbrev", estimate.ProgramAbbrev)
	v.SetDefault("estimate.group_abbrev", estimate.GroupAbbrev)

	conn := connection.NewConfig()
	v.SetDefault("connection.max_attempts", conn.MaxAttempts)
	v.SetDefault("connection.initial_backoff", conn.InitialBackoff)
	v.SetDefault("connection.max_backoff", conn.MaxBackoff)
	v.SetDefault("connection.max_failures", conn.MaxFailures)
	v.SetDefault("connection.reset_timeout", conn.ResetTimeout)
	v.SetDefault("connection.half_open_max", conn.HalfOpenMax)
	v.SetDefault("connection.max_tokens", conn.MaxTokens)
	v.SetDefault("connection.refill_rate", conn.RefillRate)

	v.SetDefault("qvm.seed", qvm.NewConfig().Seed)
}

/*
loadConfig layers, from lowest to highest priority: built-in defaults, the
config file at filePath (skipped when empty or missing), QESTIMATE_* environment
variables such as QESTIMATE_ESTIMATE_SHOTS, and flags the user set on cmd.
*/
func loadConfig(filePath string, cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("QESTIMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for key, name := range flagBindings {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	if filePath != "" {
		v.SetConfigFile(filePath)

		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}
