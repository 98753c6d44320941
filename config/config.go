package config

import (
	"time"
)

// GetEncoreConfig returns the current configuration
func GetEncoreConfig() EncoreConfig {
	val, _ := NewEncoreConfig()
	return val
}

// EncoreConfig represents options that configure the global behavior of the program
type EncoreConfig struct {
	// TickInterval is the cadence of the engine loop. Progress, fades and
	// completions all advance on this interval.
	TickInterval time.Duration

	// FadeStepsPerSecond converts fade durations into discrete gain steps.
	// One step is applied per engine tick, so this must match TickInterval.
	FadeStepsPerSecond int

	// DuckSteps is the fixed number of steps a duck (or unduck) ramp takes.
	DuckSteps int

	// DefaultStopFade is used when a stop has no explicit fade time.
	DefaultStopFade time.Duration

	// MasterGain is the initial overall output level (0-1).
	MasterGain float64

	// SampleRate is the speaker sample rate in Hz.
	SampleRate int

	// BufferLength is the speaker buffer size expressed as a duration.
	BufferLength time.Duration
}

// Create a new EncoreConfig object with reasonable defaults for real usage
func NewEncoreConfig() (EncoreConfig, error) {
	// TODO - support passing in a config file one day

	return EncoreConfig{
		TickInterval:       100 * time.Millisecond,
		FadeStepsPerSecond: 10,
		DuckSteps:          5,
		DefaultStopFade:    500 * time.Millisecond,
		MasterGain:         1.0,
		SampleRate:         44100,
		BufferLength:       100 * time.Millisecond,
	}, nil
}
