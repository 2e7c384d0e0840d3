package sync

import "time"

// Config tunes the retry loop and detached cloud calls.
// Zero fields are replaced with the defaults below.
type Config struct {
	BaseDelay         time.Duration
	MinDelay          time.Duration
	MaxDelay          time.Duration
	CloudTimeout      time.Duration
	FailureMultiplier float64
	PartialMultiplier float64
}

const (
	DefaultBaseDelay         = 300 * time.Second
	DefaultMinDelay          = 60 * time.Second
	DefaultMaxDelay          = 1800 * time.Second
	DefaultCloudTimeout      = 30 * time.Second
	DefaultFailureMultiplier = 1.5
	DefaultPartialMultiplier = 1.2
)

// DefaultConfig returns the production retry settings.
func DefaultConfig() Config {
	return Config{
		BaseDelay:         DefaultBaseDelay,
		MinDelay:          DefaultMinDelay,
		MaxDelay:          DefaultMaxDelay,
		CloudTimeout:      DefaultCloudTimeout,
		FailureMultiplier: DefaultFailureMultiplier,
		PartialMultiplier: DefaultPartialMultiplier,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MinDelay <= 0 {
		c.MinDelay = def.MinDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.CloudTimeout <= 0 {
		c.CloudTimeout = def.CloudTimeout
	}
	if c.FailureMultiplier <= 1 {
		c.FailureMultiplier = def.FailureMultiplier
	}
	if c.PartialMultiplier <= 1 {
		c.PartialMultiplier = def.PartialMultiplier
	}
	// границы должны оставаться согласованными
	if c.MinDelay > c.MaxDelay {
		c.MinDelay = c.MaxDelay
	}
	// стартовая задержка тоже лежит в [MinDelay, MaxDelay]
	c.BaseDelay = min(max(c.BaseDelay, c.MinDelay), c.MaxDelay)
	return c
}
