package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/loadfleet/cmd/loadfleet/handlers"
)

// Destroy returns the command for deleting a load-testing cluster.
func Destroy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the load-testing cluster",
		Long: `Delete every server, firewall and network labeled with the cluster name.

The published test script is kept; remove it with 'loadfleet publish --remove'.

Examples:
  loadfleet destroy
  loadfleet destroy -c staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: loadfleet.yaml)")
	return cmd
}
