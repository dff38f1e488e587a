package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/fipctl/internal/fip"
)

// Address list keys used in fip.Server.Addresses.
const (
	NetworkPublic        = "public"
	NetworkFloating      = "floating"
	networkPrivatePrefix = "private:"
)

// ListServers returns every server of the project.
func (c *RealClient) ListServers(ctx context.Context) ([]*fip.Server, error) {
	servers, err := c.client.Server.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", classify(err))
	}

	addresses, err := c.floatingAddressesFor(ctx, servers...)
	if err != nil {
		return nil, err
	}

	out := make([]*fip.Server, 0, len(servers))
	for _, s := range servers {
		out = append(out, toServer(s, addresses))
	}
	return out, nil
}

// FindServer resolves a numeric ID or a name. A numeric identifier that
// matches one server by ID and a different server by name is ambiguous.
func (c *RealClient) FindServer(ctx context.Context, idOrName string) (*fip.Server, error) {
	var matches []*hcloud.Server

	if id, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		s, _, err := c.client.Server.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get server: %w", classify(err))
		}
		if s != nil {
			matches = append(matches, s)
		}
	}

	byName, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{Name: idOrName})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", classify(err))
	}
	for _, s := range byName {
		if !containsServer(matches, s.ID) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: server %q", fip.ErrNotFound, idOrName)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d servers match %q", fip.ErrAmbiguous, len(matches), idOrName)
	}

	addresses, err := c.floatingAddressesFor(ctx, matches[0])
	if err != nil {
		return nil, err
	}
	return toServer(matches[0], addresses), nil
}

// floatingAddressesFor resolves floating IP IDs referenced by servers to
// their addresses. The server objects only carry IDs, so a listing is needed
// whenever at least one server holds a floating IP.
func (c *RealClient) floatingAddressesFor(ctx context.Context, servers ...*hcloud.Server) (map[int64]string, error) {
	needed := false
	for _, s := range servers {
		if len(s.PublicNet.FloatingIPs) > 0 {
			needed = true
			break
		}
	}
	if !needed {
		return nil, nil
	}

	fips, err := c.client.FloatingIP.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating IPs: %w", classify(err))
	}
	addresses := make(map[int64]string, len(fips))
	for _, f := range fips {
		if f.IP != nil {
			addresses[f.ID] = f.IP.String()
		}
	}
	return addresses, nil
}

func containsServer(servers []*hcloud.Server, id int64) bool {
	for _, s := range servers {
		if s.ID == id {
			return true
		}
	}
	return false
}
