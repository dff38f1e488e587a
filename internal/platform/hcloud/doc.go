// Package hcloud implements fip.ComputeClient on top of the Hetzner Cloud API.
//
// # Mapping
//
// Hetzner objects are translated into the reconciler's typed records at this
// boundary:
//
//   - servers become fip.Server; the address map carries the primary public
//     addresses under "public", the addresses of floating IPs the server
//     object reports under "floating", and every private network under
//     "private:<network id>" (primary IP first, then alias IPs)
//   - floating IPs become fip.FloatingIP; the pool is read from a label
//     (PoolLabel, "pool" by default) and written on creation
//   - hcloud.Error codes become the fip error taxonomy (see errors.go)
//
// # Calls
//
// Every method issues its requests once. Mutating calls that return a
// Hetzner action wait for it, bounded by Timeouts.Action. Individual HTTP
// requests are bounded by Timeouts.Request through the HTTP client.
//
// # Example Usage
//
//	client := hcloud.NewRealClient(token,
//	    hcloud.WithHomeLocation("fsn1"),
//	    hcloud.WithTimeouts(config.LoadTimeouts(os.LookupEnv)),
//	)
//	r := fip.NewReconciler(client)
//	res, err := r.Reconcile(ctx, fip.Request{State: fip.StatePresent, Server: "web-1"})
package hcloud
