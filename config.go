package qestimate

// Config holds the defaults used when measuring and rendering suites.
type Config struct {
	Shots         int  `mapstructure:"shots"`
	ActiveReset   bool `mapstructure:"active_reset"`
	ProgramAbbrev int  `mapstructure:"program_abbrev"`
	GroupAbbrev   int  `mapstructure:"group_abbrev"`
}

func NewConfig() *Config {
	return &Config{
		Shots:         1000,
		ActiveReset:   false,
		ProgramAbbrev: 10,
		GroupAbbrev:   20,
	}
}
