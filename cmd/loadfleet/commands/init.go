package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/loadfleet/cmd/loadfleet/handlers"
)

// Init returns the command for writing a sample cluster configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "loadfleet.yaml")
//	--force, -f: Overwrite an existing file
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample cluster configuration",
		Long: `Write a commented sample configuration file.

The sample describes a public cluster of three nodes: one master serving
the web UI on port 80 and two workers. Edit it, then run 'loadfleet plan'
to review the topology.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Init(outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "loadfleet.yaml", "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
