package fip

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// associate binds address to server unless the server already lists it.
func (r *Reconciler) associate(ctx context.Context, server *Server, address string) (bool, error) {
	log := logr.FromContextOrDiscard(ctx)

	if server.HasAddress(address) {
		log.V(1).Info("server already holds floating IP", "target", address)
		return false, nil
	}
	if err := r.client.AddFloatingIP(ctx, server, address); err != nil {
		return false, fmt.Errorf("failed to associate %s with server %s: %w", address, server, err)
	}
	log.Info("floating IP associated", "target", address)
	return true, nil
}

// disassociate unbinds address from server if the server currently lists it.
func (r *Reconciler) disassociate(ctx context.Context, server *Server, address string) (bool, error) {
	log := logr.FromContextOrDiscard(ctx)

	if !server.HasAddress(address) {
		log.V(1).Info("server does not hold floating IP", "target", address)
		return false, nil
	}
	if err := r.client.RemoveFloatingIP(ctx, server, address); err != nil {
		return false, fmt.Errorf("failed to disassociate %s from server %s: %w", address, server, err)
	}
	log.Info("floating IP disassociated", "target", address)
	return true, nil
}
