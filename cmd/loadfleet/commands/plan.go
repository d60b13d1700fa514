package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/loadfleet/cmd/loadfleet/handlers"
)

// Plan returns the command that prints the cluster plan without creating
// anything.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect loadfleet.yaml)
//	--output, -o: json, yaml or table
//	--out: Write the plan to a file instead of stdout
func Plan() *cobra.Command {
	var (
		configPath string
		format     string
		outPath    string
		flags      overrideFlags
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the cluster topology for a configuration",
		Long: `Derive the cluster plan from a configuration and print it.

The plan lists the network and subnets, every node with its bootstrap script
and inbound rules, the entry point and the peering routes. Values only known
once resources exist, such as the master's private address, appear as
${ref:...} placeholders.

Examples:
  # Review the plan as a table
  loadfleet plan -o table

  # Try a bigger headless cluster without editing the file
  loadfleet plan --cluster-size 10 --headless --users 500 --spawn-rate 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath, flags.overrides(cmd), format, outPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: loadfleet.yaml)")
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format: json, yaml or table")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the plan to this file")
	flags.register(cmd)

	return cmd
}
