package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config describes one breaker. A disabled breaker is nil and lets every
// call through.
type Config struct {
	Name    string
	Enabled bool

	// MaxRequests bounds the probes let through while half-open; 0 means 1.
	MaxRequests uint
	// Interval clears the closed-state counts; 0 never clears them.
	Interval time.Duration
	// Timeout is how long the breaker stays open; 0 means 60s.
	Timeout time.Duration
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint

	OnStateChange func(name, from, to string)
}

func (c Config) settings() gobreaker.Settings {
	threshold := uint32(max(c.FailureThreshold, 1))

	settings := gobreaker.Settings{
		Name:        c.Name,
		MaxRequests: uint32(c.MaxRequests),
		Interval:    c.Interval,
		Timeout:     c.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller that gave up tells nothing about the dependency.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	if c.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			c.OnStateChange(name, from.String(), to.String())
		}
	}

	return settings
}
