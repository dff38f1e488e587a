package fip

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// allocate returns a floating IP from pool that no server holds, creating
// one only when the account owns no free address in that pool.
func (r *Reconciler) allocate(ctx context.Context, pool string) (*FloatingIP, error) {
	log := logr.FromContextOrDiscard(ctx)

	fips, err := r.client.ListFloatingIPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating IPs: %w", err)
	}

	for _, fip := range fips {
		if fip.Pool == pool && !fip.IsAssigned() {
			log.V(1).Info("reusing unassigned floating IP", "id", fip.ID, "candidate", fip.Address)
			return fip, nil
		}
	}

	log.V(1).Info("no free floating IP in pool, creating one")
	fip, err := r.client.CreateFloatingIP(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to create floating IP in pool %q: %w", pool, err)
	}
	return fip, nil
}
