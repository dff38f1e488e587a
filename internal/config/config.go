package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/imamik/fipctl/internal/util/rdns"
)

// Defaults applied by [Config.ApplyDefaults].
const (
	DefaultLocation  = LocationFalkenstein
	DefaultIPType    = IPTypeIPv4
	DefaultPoolLabel = "pool"
	DefaultPool      = "external"
)

// Config holds everything needed to talk to the compute API and allocate
// floating IPs.
type Config struct {
	// Token authenticates against the Hetzner Cloud API.
	Token string `yaml:"token"`

	// Endpoint overrides the API URL. Empty means the public API.
	Endpoint string `yaml:"endpoint"`

	// Location is the home location new floating IPs are created in.
	Location Location `yaml:"location"`

	// IPType is the address family of new floating IPs.
	IPType IPType `yaml:"ip_type"`

	// PoolLabel is the label key that stores a floating IP's pool.
	PoolLabel string `yaml:"pool_label"`

	// Pool is used when a request names none.
	Pool string `yaml:"pool"`

	// RDNSTemplate, when set, is rendered into the reverse DNS name of
	// newly created floating IPs.
	RDNSTemplate string `yaml:"rdns_template"`

	Timeouts Timeouts `yaml:"timeouts"`
}

// Location is a Hetzner location floating IPs can live in.
type Location string

const (
	// LocationFalkenstein is Falkenstein, Germany (fsn1).
	LocationFalkenstein Location = "fsn1"
	// LocationNuremberg is Nuremberg, Germany (nbg1).
	LocationNuremberg Location = "nbg1"
	// LocationHelsinki is Helsinki, Finland (hel1).
	LocationHelsinki Location = "hel1"
	// LocationAshburn is Ashburn, VA, USA (ash).
	LocationAshburn Location = "ash"
	// LocationHillsboro is Hillsboro, OR, USA (hil).
	LocationHillsboro Location = "hil"
	// LocationSingapore is Singapore (sin).
	LocationSingapore Location = "sin"
)

// ValidLocations returns all known locations.
func ValidLocations() []Location {
	return []Location{
		LocationFalkenstein, LocationNuremberg, LocationHelsinki,
		LocationAshburn, LocationHillsboro, LocationSingapore,
	}
}

// IsValid returns true if the location is a known Hetzner location.
func (l Location) IsValid() bool {
	for _, v := range ValidLocations() {
		if l == v {
			return true
		}
	}
	return false
}

// IPType is a floating IP address family.
type IPType string

const (
	IPTypeIPv4 IPType = "ipv4"
	IPTypeIPv6 IPType = "ipv6"
)

// IsValid returns true for ipv4 and ipv6.
func (t IPType) IsValid() bool {
	return t == IPTypeIPv4 || t == IPTypeIPv6
}

// Hetzner label keys: optional DNS prefix, then a name of up to 63 chars.
var labelKeyPattern = regexp.MustCompile(`^([a-z0-9]([-a-z0-9.]*[a-z0-9])?/)?[A-Za-z0-9]([-A-Za-z0-9_.]{0,61}[A-Za-z0-9])?$`)

// Default returns a Config with every optional field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Location == "" {
		c.Location = DefaultLocation
	}
	if c.IPType == "" {
		c.IPType = DefaultIPType
	}
	if c.PoolLabel == "" {
		c.PoolLabel = DefaultPoolLabel
	}
	if c.Pool == "" {
		c.Pool = DefaultPool
	}
	c.Timeouts.applyDefaults()
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Token == "" {
		errs = append(errs, errors.New("token is required (set --token or HCLOUD_TOKEN)"))
	}
	if c.Endpoint != "" {
		if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("endpoint must be an absolute URL, got %q", c.Endpoint))
		}
	}
	if !c.Location.IsValid() {
		errs = append(errs, fmt.Errorf("location must be one of: %v", ValidLocations()))
	}
	if !c.IPType.IsValid() {
		errs = append(errs, fmt.Errorf("ip_type must be %q or %q", IPTypeIPv4, IPTypeIPv6))
	}
	if !labelKeyPattern.MatchString(c.PoolLabel) {
		errs = append(errs, fmt.Errorf("pool_label %q is not a valid label key", c.PoolLabel))
	}
	if err := rdns.Validate(c.RDNSTemplate); err != nil {
		errs = append(errs, fmt.Errorf("rdns_template: %w", err))
	}
	if c.Timeouts.Request <= 0 {
		errs = append(errs, errors.New("timeouts.request must be positive"))
	}
	if c.Timeouts.Action <= 0 {
		errs = append(errs, errors.New("timeouts.action must be positive"))
	}

	return errors.Join(errs...)
}
