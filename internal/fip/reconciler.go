package fip

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/go-logr/logr"
)

// Reconciler drives a ComputeClient towards a declared floating IP state.
type Reconciler struct {
	client ComputeClient
}

// NewReconciler creates a Reconciler backed by client.
func NewReconciler(client ComputeClient) *Reconciler {
	return &Reconciler{client: client}
}

// Reconcile authenticates, reads current state and applies the mutating
// calls needed to satisfy req. The returned Result reports whether anything
// changed and which address the request resolved to.
//
// When a floating IP is allocated for a server but the association fails,
// Reconcile returns the allocation result together with a *PartialError.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (Result, error) {
	req, err := normalize(req)
	if err != nil {
		return Result{}, err
	}

	log := logr.FromContextOrDiscard(ctx).WithValues("state", req.State, "pool", req.Pool)
	if req.Server != "" {
		log = log.WithValues("server", req.Server)
	}
	if req.Address != "" {
		log = log.WithValues("address", req.Address)
	}
	ctx = logr.NewContext(ctx, log)

	if err := r.client.Authenticate(ctx); err != nil {
		return Result{}, err
	}

	switch req.State {
	case StatePresent:
		return r.reconcilePresent(ctx, req)
	default:
		return r.reconcileAbsent(ctx, req)
	}
}

func (r *Reconciler) reconcilePresent(ctx context.Context, req Request) (Result, error) {
	log := logr.FromContextOrDiscard(ctx)

	if req.Address == "" {
		var server *Server
		if req.Server != "" {
			s, err := r.findServer(ctx, req.Server)
			if err != nil {
				return Result{}, err
			}
			server = s
		}

		fip, err := r.allocate(ctx, req.Pool)
		if err != nil {
			return Result{}, err
		}
		result := Result{Changed: true, Address: fip.Address}

		if server == nil {
			log.Info("floating IP allocated", "allocated", fip.Address)
			return result, nil
		}

		if _, err := r.associate(ctx, server, fip.Address); err != nil {
			return result, &PartialError{Address: fip.Address, Server: server.String(), Err: err}
		}
		log.Info("floating IP allocated and associated", "allocated", fip.Address)
		return result, nil
	}

	server, err := r.findServer(ctx, req.Server)
	if err != nil {
		return Result{}, err
	}
	changed, err := r.associate(ctx, server, req.Address)
	if err != nil {
		return Result{}, err
	}
	return Result{Changed: changed, Address: req.Address}, nil
}

func (r *Reconciler) reconcileAbsent(ctx context.Context, req Request) (Result, error) {
	if req.Server == "" {
		changed, err := r.deallocate(ctx, req.Address)
		return Result{Changed: changed, Address: req.Address}, err
	}

	server, err := r.findServer(ctx, req.Server)
	if err != nil {
		return Result{}, err
	}
	changed, err := r.disassociate(ctx, server, req.Address)
	if err != nil {
		return Result{}, err
	}
	return Result{Changed: changed, Address: req.Address}, nil
}

// deallocate deletes every floating IP whose address equals address.
func (r *Reconciler) deallocate(ctx context.Context, address string) (bool, error) {
	log := logr.FromContextOrDiscard(ctx)

	fips, err := r.client.ListFloatingIPs(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list floating IPs: %w", err)
	}

	deleted := 0
	for _, fip := range fips {
		if fip.Address != address {
			continue
		}
		if err := r.client.DeleteFloatingIP(ctx, fip.ID); err != nil {
			return deleted > 0, fmt.Errorf("failed to delete floating IP %s (%s): %w", fip.Address, fip.ID, err)
		}
		log.Info("floating IP deleted", "id", fip.ID)
		deleted++
	}

	if deleted == 0 {
		log.V(1).Info("no floating IP matches address, nothing to delete")
	}
	return deleted > 0, nil
}

// findServer resolves an ID or name through the compute API.
func (r *Reconciler) findServer(ctx context.Context, idOrName string) (*Server, error) {
	server, err := r.client.FindServer(ctx, idOrName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve server %q: %w", idOrName, err)
	}
	return server, nil
}

// normalize applies defaults and rejects requests no decision path accepts.
func normalize(req Request) (Request, error) {
	if !req.State.IsValid() {
		return req, fmt.Errorf("%w: state must be one of %v, got %q", ErrInvalidRequest, ValidStates(), req.State)
	}
	if req.Pool == "" {
		req.Pool = DefaultPool
	}

	if req.Address != "" {
		addr, err := netip.ParseAddr(req.Address)
		if err != nil {
			return req, fmt.Errorf("%w: floating address %q is not an IP address", ErrInvalidRequest, req.Address)
		}
		if addr.Zone() != "" {
			return req, fmt.Errorf("%w: floating address %q must not carry a zone", ErrInvalidRequest, req.Address)
		}
		req.Address = addr.Unmap().String()
	}

	switch req.State {
	case StatePresent:
		if req.Address != "" && req.Server == "" {
			return req, fmt.Errorf("%w: a server is required when a floating address is given", ErrInvalidRequest)
		}
	case StateAbsent:
		if req.Address == "" {
			return req, fmt.Errorf("%w: a floating address is required when state is absent", ErrInvalidRequest)
		}
	}
	return req, nil
}
