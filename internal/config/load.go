package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names consulted by [Config.ApplyEnv].
const (
	EnvToken          = "HCLOUD_TOKEN"
	EnvEndpoint       = "HCLOUD_ENDPOINT"
	EnvLocation       = "HCLOUD_LOCATION"
	EnvTimeoutRequest = "HCLOUD_TIMEOUT_REQUEST"
	EnvTimeoutAction  = "HCLOUD_TIMEOUT_ACTION"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load reads a configuration file without applying defaults or validation.
// The caller layers flags, environment and defaults on top.
func Load(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML configuration data.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv fills fields that are still unset from environment variables.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if lookup == nil {
		return
	}
	setIfEmpty(&c.Token, lookup, EnvToken)
	setIfEmpty(&c.Endpoint, lookup, EnvEndpoint)

	loc := string(c.Location)
	setIfEmpty(&loc, lookup, EnvLocation)
	c.Location = Location(loc)

	env := LoadTimeouts(lookup)
	if _, ok := lookup(EnvTimeoutRequest); ok && c.Timeouts.Request == 0 {
		c.Timeouts.Request = env.Request
	}
	if _, ok := lookup(EnvTimeoutAction); ok && c.Timeouts.Action == 0 {
		c.Timeouts.Action = env.Action
	}
}

func setIfEmpty(dst *string, lookup LookupFunc, key string) {
	if *dst != "" {
		return
	}
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
