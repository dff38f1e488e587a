// Package handlers executes fipctl commands.
//
// Handlers assemble the explicit configuration (file, flags, environment,
// defaults), build the logger, metrics recorder and API client, run the
// operation and render its result. Collaborators are created through
// package-level factory variables so tests can replace them.
package handlers

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/fipctl/internal/config"
	"github.com/imamik/fipctl/internal/fip"
	"github.com/imamik/fipctl/internal/platform/hcloud"
)

// Options carries the global flags shared by all commands.
type Options struct {
	ConfigPath  string
	Token       string
	Endpoint    string
	Location    string
	Output      string
	LogFormat   string
	Verbosity   int
	MetricsFile string
}

// ReconcileOptions carries the reconcile command flags.
type ReconcileOptions struct {
	State   string
	Server  string
	Address string
	Pool    string
}

var appVersion = "dev"

// SetVersion sets the version reported to the API in the User-Agent.
func SetVersion(v string) {
	appVersion = v
}

// Factory function variables - can be replaced in tests.
var (
	// lookupEnv resolves environment fallbacks for unset settings.
	lookupEnv config.LookupFunc = os.LookupEnv

	// loadConfigFile reads the optional YAML configuration.
	loadConfigFile = config.Load

	// newComputeClient creates the compute API client for cfg.
	newComputeClient = func(cfg *config.Config, reg prometheus.Registerer) fip.ComputeClient {
		opts := []hcloud.ClientOption{
			hcloud.WithTimeouts(&cfg.Timeouts),
			hcloud.WithHomeLocation(string(cfg.Location)),
			hcloud.WithIPType(string(cfg.IPType)),
			hcloud.WithPoolLabel(cfg.PoolLabel),
			hcloud.WithApplication("fipctl", appVersion),
			hcloud.WithRegisterer(reg),
		}
		if cfg.RDNSTemplate != "" {
			opts = append(opts, hcloud.WithRDNSTemplate(cfg.RDNSTemplate))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, hcloud.WithEndpoint(cfg.Endpoint))
		}
		return hcloud.NewRealClient(cfg.Token, opts...)
	}
)

// resolveConfig layers the configuration: file, then flags, then
// environment fallbacks, then defaults.
func resolveConfig(opts Options) (*config.Config, error) {
	cfg := &config.Config{}
	if opts.ConfigPath != "" {
		loaded, err := loadConfigFile(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.Token != "" {
		cfg.Token = opts.Token
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}
	if opts.Location != "" {
		cfg.Location = config.Location(opts.Location)
	}

	cfg.ApplyEnv(lookupEnv)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
