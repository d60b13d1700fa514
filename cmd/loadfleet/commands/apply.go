package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/loadfleet/cmd/loadfleet/handlers"
)

// Apply returns the command for provisioning a load-testing cluster.
//
// Optional flags:
//
//	--config, -c: Path to cluster configuration YAML file (default: auto-detect loadfleet.yaml)
//	--dry-run: Log provider requests instead of sending them
//	--skip-publish: Use the already published test script
//	--metrics-file: Write Prometheus metrics of the run to a file
//	--wait: Wait for the web UI of a public cluster
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required unless --dry-run)
//	LOADFLEET_S3_ACCESS_KEY, LOADFLEET_S3_SECRET_KEY: object storage credentials
func Apply() *cobra.Command {
	var (
		configPath string
		opts       handlers.ApplyOptions
		flags      overrideFlags
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the load-testing cluster",
		Long: `Create the load-testing cluster on Hetzner Cloud.

This command publishes the test script, creates the network, firewalls,
the master and the workers, and prints the entry point: the web UI address
for a public cluster or the master's private address for a headless one.

Existing resources with the planned names are reused, so an interrupted
apply can be repeated.

Examples:
  # Create the cluster described by loadfleet.yaml
  loadfleet apply

  # See what would be created
  loadfleet apply --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, flags.overrides(cmd), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: loadfleet.yaml)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Log provider requests instead of sending them")
	cmd.Flags().BoolVar(&opts.SkipPublish, "skip-publish", false, "Use the already published test script")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	cmd.Flags().BoolVar(&opts.Wait, "wait", false, "Wait until the web UI accepts connections (public clusters)")
	flags.register(cmd)

	return cmd
}
