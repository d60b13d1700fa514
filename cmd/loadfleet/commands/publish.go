package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/loadfleet/cmd/loadfleet/handlers"
)

// Publish returns the command that uploads the test script.
//
// Environment variables:
//
//	LOADFLEET_S3_ACCESS_KEY, LOADFLEET_S3_SECRET_KEY: object storage credentials
func Publish() *cobra.Command {
	var (
		configPath string
		remove     bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the test script to object storage",
		Long: `Upload the test script to the configured bucket.

The bucket is created when it does not exist. Nodes download the script on
first boot, so it must be published before 'loadfleet apply --skip-publish'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Publish(cmd.Context(), configPath, remove)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: loadfleet.yaml)")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the published script instead")

	return cmd
}
