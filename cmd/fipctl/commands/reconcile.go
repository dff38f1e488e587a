package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/fipctl/cmd/fipctl/handlers"
	"github.com/imamik/fipctl/internal/fip"
)

// Reconcile returns the reconcile command.
func Reconcile(opts *handlers.Options) *cobra.Command {
	var req handlers.ReconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Bring a floating IP to the declared state",
		Long: `Reconcile reads the current floating IPs and servers and applies the
minimal set of API calls to reach the declared state.

  state=present, no address, no server   allocate from the pool
  state=present, no address, server      allocate and associate with the server
  state=present, address, server         associate the address with the server
  state=absent,  address, no server      release every floating IP with the address
  state=absent,  address, server         disassociate the address from the server

Allocation reuses an unassigned floating IP of the pool before creating one.

Examples:
  fipctl reconcile --state present --server web-1
  fipctl reconcile --state present --server web-1 --address 203.0.113.10
  fipctl reconcile --state absent --address 203.0.113.10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Reconcile(cmd.Context(), *opts, req, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&req.State, "state", "s", string(fip.StatePresent), "Desired state: present or absent")
	cmd.Flags().StringVar(&req.Server, "server", "", "Server ID or name")
	cmd.Flags().StringVarP(&req.Address, "address", "a", "", "Floating IP address")
	cmd.Flags().StringVarP(&req.Pool, "pool", "p", "", "Pool to allocate from (default from config, then \"external\")")

	return cmd
}
