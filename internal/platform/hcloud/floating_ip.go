package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/fipctl/internal/fip"
	"github.com/imamik/fipctl/internal/util/labels"
	"github.com/imamik/fipctl/internal/util/rdns"
)

// ListFloatingIPs returns every floating IP of the project in API order.
func (c *RealClient) ListFloatingIPs(ctx context.Context) ([]*fip.FloatingIP, error) {
	fips, err := c.client.FloatingIP.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating IPs: %w", classify(err))
	}
	out := make([]*fip.FloatingIP, 0, len(fips))
	for _, f := range fips {
		out = append(out, toFloatingIP(f, c.poolLabel))
	}
	return out, nil
}

// CreateFloatingIP allocates a new floating IP in the home location and
// tags it with pool.
func (c *RealClient) CreateFloatingIP(ctx context.Context, pool string) (*fip.FloatingIP, error) {
	opts := hcloud.FloatingIPCreateOpts{
		Type:         c.ipType,
		HomeLocation: &hcloud.Location{Name: c.homeLocation},
		Description:  hcloud.Ptr("allocated by fipctl"),
		Labels:       labels.NewLabelBuilder().WithPool(c.poolLabel, pool).Build(),
	}

	res, _, err := c.client.FloatingIP.Create(ctx, opts)
	if err != nil {
		return nil, classifyCreate(err)
	}
	if err := c.waitForAction(ctx, res.Action); err != nil {
		return nil, fmt.Errorf("%w: failed to wait for floating IP creation: %w", fip.ErrAllocation, err)
	}

	out := toFloatingIP(res.FloatingIP, c.poolLabel)
	logr.FromContextOrDiscard(ctx).V(1).Info("created floating IP", "id", out.ID, "created", out.Address)

	if err := c.setReverseDNS(ctx, res.FloatingIP, pool); err != nil {
		return nil, fmt.Errorf("%w: floating IP %s created but reverse DNS failed: %w", fip.ErrAllocation, out.Address, err)
	}
	return out, nil
}

// setReverseDNS points the PTR record of f at the rendered template.
func (c *RealClient) setReverseDNS(ctx context.Context, f *hcloud.FloatingIP, pool string) error {
	if c.rdnsTemplate == "" || isUnset(f.IP) {
		return nil
	}
	name, err := rdns.RenderTemplate(c.rdnsTemplate, rdns.TemplateVars{
		ID:        f.ID,
		IPAddress: f.IP.String(),
		IPType:    string(f.Type),
		Location:  c.homeLocation,
		Pool:      pool,
	})
	if err != nil {
		return err
	}

	action, _, err := c.client.RDNS.ChangeDNSPtr(ctx, f, f.IP, hcloud.Ptr(name))
	if err != nil {
		return classify(err)
	}
	if err := c.waitForAction(ctx, action); err != nil {
		return err
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("set reverse DNS", "address", f.IP.String(), "ptr", name)
	return nil
}

// DeleteFloatingIP releases the floating IP with the given ID.
func (c *RealClient) DeleteFloatingIP(ctx context.Context, id string) error {
	fid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := c.client.FloatingIP.Delete(ctx, &hcloud.FloatingIP{ID: fid}); err != nil {
		return fmt.Errorf("failed to delete floating IP: %w", classify(err))
	}
	return nil
}

// AddFloatingIP assigns the floating IP holding address to server.
func (c *RealClient) AddFloatingIP(ctx context.Context, server *fip.Server, address string) error {
	f, err := c.floatingIPByAddress(ctx, address)
	if err != nil {
		return err
	}
	sid, err := parseID(server.ID)
	if err != nil {
		return err
	}

	action, _, err := c.client.FloatingIP.Assign(ctx, f, &hcloud.Server{ID: sid})
	if err != nil {
		return fmt.Errorf("failed to assign floating IP: %w", classify(err))
	}
	if err := c.waitForAction(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for floating IP assignment: %w", err)
	}
	return nil
}

// RemoveFloatingIP unassigns the floating IP holding address. Hetzner
// unassigns from whichever server holds it, so server is used for logging.
func (c *RealClient) RemoveFloatingIP(ctx context.Context, server *fip.Server, address string) error {
	f, err := c.floatingIPByAddress(ctx, address)
	if err != nil {
		return err
	}
	if f.Server != nil && strconv.FormatInt(f.Server.ID, 10) != server.ID {
		logr.FromContextOrDiscard(ctx).V(1).Info("floating IP record names a different server",
			"recordServer", f.Server.ID, "target", server.ID)
	}

	action, _, err := c.client.FloatingIP.Unassign(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to unassign floating IP: %w", classify(err))
	}
	if err := c.waitForAction(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for floating IP unassignment: %w", err)
	}
	return nil
}

// floatingIPByAddress returns the first floating IP whose address equals
// address.
func (c *RealClient) floatingIPByAddress(ctx context.Context, address string) (*hcloud.FloatingIP, error) {
	fips, err := c.client.FloatingIP.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating IPs: %w", classify(err))
	}
	for _, f := range fips {
		if !isUnset(f.IP) && f.IP.String() == address {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: floating IP %s", fip.ErrNotFound, address)
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", fip.ErrInvalidRequest, id)
	}
	return n, nil
}
