package config

import (
	"strconv"
	"time"
)

// Timeouts holds per-call limits enforced by the API client.
type Timeouts struct {
	Request time.Duration `yaml:"request"` // Timeout for a single HTTP request
	Action  time.Duration `yaml:"action"`  // Timeout for waiting on an asynchronous action
}

const (
	defaultRequestTimeout = 30 * time.Second
	defaultActionTimeout  = 2 * time.Minute
)

// DefaultTimeouts returns the built-in timeouts.
func DefaultTimeouts() *Timeouts {
	return &Timeouts{
		Request: defaultRequestTimeout,
		Action:  defaultActionTimeout,
	}
}

// LoadTimeouts loads timeout configuration through lookup.
// If a variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HCLOUD_TIMEOUT_REQUEST (default: 30s)
//   - HCLOUD_TIMEOUT_ACTION (default: 2m)
func LoadTimeouts(lookup LookupFunc) *Timeouts {
	return &Timeouts{
		Request: parseDuration(lookup, EnvTimeoutRequest, defaultRequestTimeout),
		Action:  parseDuration(lookup, EnvTimeoutAction, defaultActionTimeout),
	}
}

func (t *Timeouts) applyDefaults() {
	if t.Request == 0 {
		t.Request = defaultRequestTimeout
	}
	if t.Action == 0 {
		t.Action = defaultActionTimeout
	}
}

// parseDuration parses a duration from a variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(lookup LookupFunc, key string, defaultVal time.Duration) time.Duration {
	val, ok := lookup(key)
	if !ok || val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		// Bare integers are seconds.
		secs, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal
		}
		return time.Duration(secs) * time.Second
	}

	return d
}
