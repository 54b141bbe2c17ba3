package connection

import "time"

type Config struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	MaxFailures    int           `mapstructure:"max_failures"`
	ResetTimeout   time.Duration `mapstructure:"reset_timeout"`
	HalfOpenMax    int           `mapstructure:"half_open_max"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	RefillRate     time.Duration `mapstructure:"refill_rate"`
}

func NewConfig() *Config {
	return &Config{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		MaxFailures:    5,
		ResetTimeout:   30 * time.Second,
		HalfOpenMax:    1,
		MaxTokens:      10,
		RefillRate:     100 * time.Millisecond,
	}
}
