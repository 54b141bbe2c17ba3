package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func writeConfig(dir string) string {
	path := filepath.Join(dir, "qestimate.yaml")
	So(os.WriteFile(path, []byte(`
estimate:
  shots: 250
  active_reset: true
connection:
  max_attempts: 7
  refill_rate: 5ms
qvm:
  seed: 42
`), 0o644), ShouldBeNil)
	return path
}

func TestLoadConfig(t *testing.T) {
	Convey("Given no config file", t, func() {
		cfg, err := loadConfig("", nil)

		Convey("It should fall back to the package defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Estimate.Shots, ShouldEqual, 1000)
			So(cfg.Estimate.ProgramAbbrev, ShouldEqual, 10)
			So(cfg.Connection.MaxAttempts, ShouldEqual, 3)
			So(cfg.Connection.ResetTimeout, ShouldEqual, 30*time.Second)
		})
	})

	Convey("Given a YAML config file", t, func() {
		path := writeConfig(t.TempDir())

		Convey("It should read every section", func() {
			cfg, err := loadConfig(path, nil)
			So(err, ShouldBeNil)
			So(cfg.Estimate.Shots, ShouldEqual, 250)
			So(cfg.Estimate.ActiveReset, ShouldBeTrue)
			So(cfg.Estimate.GroupAbbrev, ShouldEqual, 20)
			So(cfg.Connection.MaxAttempts, ShouldEqual, 7)
			So(cfg.Connection.RefillRate, ShouldEqual, 5*time.Millisecond)
			So(cfg.QVM.Seed, ShouldEqual, uint64(42))
		})
	})

	Convey("Given a config path that does not exist", t, func() {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)

		Convey("It should still load the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Estimate.Shots, ShouldEqual, 1000)
		})
	})
}

// The environment is set for the whole test function, so it gets one of its own.
func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("QESTIMATE_ESTIMATE_SHOTS", "64")
	t.Setenv("QESTIMATE_CONNECTION_MAX_ATTEMPTS", "9")

	Convey("Given QESTIMATE_* environment variables and a config file", t, func() {
		path := writeConfig(t.TempDir())

		Convey("The environment should win over the file", func() {
			cfg, err := loadConfig(path, nil)
			So(err, ShouldBeNil)
			So(cfg.Estimate.Shots, ShouldEqual, 64)
			So(cfg.Connection.MaxAttempts, ShouldEqual, 9)
			So(cfg.QVM.Seed, ShouldEqual, uint64(42))
		})

		Convey("The environment should win over the defaults", func() {
			cfg, err := loadConfig("", nil)
			So(err, ShouldBeNil)
			So(cfg.Estimate.Shots, ShouldEqual, 64)
			So(cfg.Estimate.GroupAbbrev, ShouldEqual, 20)
		})
	})
}
