// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/fipctl/cmd/fipctl/handlers"
)

// Root returns the root command for the fipctl CLI.
//
// Global flags are bound once here and shared with every subcommand.
func Root() *cobra.Command {
	opts := &handlers.Options{}

	cmd := &cobra.Command{
		Use:           "fipctl",
		Short:         "Reconcile Hetzner Cloud floating IPs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a fipctl YAML configuration file")
	flags.StringVar(&opts.Token, "token", "", "Hetzner Cloud API token (default $HCLOUD_TOKEN)")
	flags.StringVar(&opts.Endpoint, "endpoint", "", "Hetzner Cloud API endpoint (default $HCLOUD_ENDPOINT)")
	flags.StringVar(&opts.Location, "location", "", "Home location for new floating IPs (default $HCLOUD_LOCATION or fsn1)")
	flags.StringVarP(&opts.Output, "output", "o", handlers.OutputAuto, "Output format: auto, json or text")
	flags.StringVar(&opts.LogFormat, "log-format", handlers.LogFormatText, "Log format: text or json")
	flags.IntVarP(&opts.Verbosity, "verbose", "v", 0, "Log verbosity (0 logs changes, 1 traces decisions)")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")

	cmd.AddCommand(Reconcile(opts))
	cmd.AddCommand(List(opts))
	cmd.AddCommand(Version())

	return cmd
}
