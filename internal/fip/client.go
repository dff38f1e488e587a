package fip

import "context"

// ComputeClient is the compute API surface the reconciler depends on.
// Implementations map provider responses to Server and FloatingIP records
// and provider failures to the errors declared in this package.
type ComputeClient interface {
	// Authenticate verifies the configured credentials.
	Authenticate(ctx context.Context) error

	ListServers(ctx context.Context) ([]*Server, error)
	// FindServer resolves an ID or a name to exactly one server. It returns
	// ErrNotFound for zero matches and ErrAmbiguous for several.
	FindServer(ctx context.Context, idOrName string) (*Server, error)

	// ListFloatingIPs returns every floating IP of the account in API order.
	ListFloatingIPs(ctx context.Context) ([]*FloatingIP, error)
	CreateFloatingIP(ctx context.Context, pool string) (*FloatingIP, error)
	DeleteFloatingIP(ctx context.Context, id string) error

	// AddFloatingIP binds address to server.
	AddFloatingIP(ctx context.Context, server *Server, address string) error
	// RemoveFloatingIP unbinds address from server.
	RemoveFloatingIP(ctx context.Context, server *Server, address string) error
}
