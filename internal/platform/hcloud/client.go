package hcloud

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/fipctl/internal/config"
	"github.com/imamik/fipctl/internal/fip"
)

// DefaultPoolLabel is the label key holding a floating IP's pool.
const DefaultPoolLabel = "pool"

// RealClient implements fip.ComputeClient using the Hetzner Cloud API.
type RealClient struct {
	client   *hcloud.Client
	timeouts *config.Timeouts

	token        string
	endpoint     string
	application  string
	version      string
	registerer   prometheus.Registerer
	homeLocation string
	ipType       hcloud.FloatingIPType
	poolLabel    string
	rdnsTemplate string
}

var _ fip.ComputeClient = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
// Endpoint, application and instrumentation options are ignored when set.
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// WithEndpoint overrides the Hetzner Cloud API endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *RealClient) {
		c.endpoint = endpoint
	}
}

// WithApplication sets the name and version reported in the User-Agent.
func WithApplication(name, version string) ClientOption {
	return func(c *RealClient) {
		c.application = name
		c.version = version
	}
}

// WithRegisterer enables hcloud-go's request instrumentation on reg.
func WithRegisterer(reg prometheus.Registerer) ClientOption {
	return func(c *RealClient) {
		c.registerer = reg
	}
}

// WithHomeLocation sets the location new floating IPs are created in.
func WithHomeLocation(location string) ClientOption {
	return func(c *RealClient) {
		c.homeLocation = location
	}
}

// WithIPType sets the address family of new floating IPs ("ipv4" or "ipv6").
func WithIPType(ipType string) ClientOption {
	return func(c *RealClient) {
		c.ipType = hcloud.FloatingIPType(ipType)
	}
}

// WithPoolLabel sets the label key that stores a floating IP's pool.
func WithPoolLabel(key string) ClientOption {
	return func(c *RealClient) {
		c.poolLabel = key
	}
}

// WithRDNSTemplate sets the reverse DNS template applied to new floating IPs.
func WithRDNSTemplate(template string) ClientOption {
	return func(c *RealClient) {
		c.rdnsTemplate = template
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		token:        token,
		timeouts:     config.DefaultTimeouts(),
		homeLocation: string(config.DefaultLocation),
		ipType:       hcloud.FloatingIPTypeIPv4,
		poolLabel:    DefaultPoolLabel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = hcloud.NewClient(c.hcloudOptions()...)
	}
	return c
}

func (c *RealClient) hcloudOptions() []hcloud.ClientOption {
	opts := []hcloud.ClientOption{
		hcloud.WithToken(c.token),
		hcloud.WithHTTPClient(&http.Client{Timeout: c.timeouts.Request}),
	}
	if c.endpoint != "" {
		opts = append(opts, hcloud.WithEndpoint(c.endpoint))
	}
	if c.application != "" {
		opts = append(opts, hcloud.WithApplication(c.application, c.version))
	}
	if c.registerer != nil {
		opts = append(opts, hcloud.WithInstrumentation(c.registerer))
	}
	return opts
}

// Authenticate verifies the token with a read-only call that also resolves
// the configured home location.
func (c *RealClient) Authenticate(ctx context.Context) error {
	loc, _, err := c.client.Location.Get(ctx, c.homeLocation)
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", classify(err))
	}
	if loc == nil {
		return fmt.Errorf("%w: home location %q", fip.ErrNotFound, c.homeLocation)
	}
	return nil
}

// waitForAction waits for a Hetzner action, bounded by Timeouts.Action.
func (c *RealClient) waitForAction(ctx context.Context, action *hcloud.Action) error {
	if action == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Action)
	defer cancel()
	return c.client.Action.WaitFor(ctx, action)
}
