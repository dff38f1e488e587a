package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/fipctl/cmd/fipctl/handlers"
)

// List returns the list command.
func List(opts *handlers.Options) *cobra.Command {
	var pool string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List floating IPs",
		Long: `List prints every floating IP of the project with its pool and the
server the API reports it as assigned to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), *opts, pool, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&pool, "pool", "p", "", "Only list floating IPs of this pool")

	return cmd
}
