package handlers

import (
	"fmt"
	"os"
)

// fileExists checks if a file exists.
var fileExists = func(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

const sampleConfig = `# loadfleet cluster configuration
cluster_name: loadtest

# Total number of nodes including the master. 1 runs standalone.
cluster_size: 3
instance_type: cx22
location: nbg1

# public serves the web UI on port 80; private runs headless.
visibility: public
# tool_version: 2.1.0

# Required when visibility is private.
# user_count: 100
# spawn_rate: 10

ssh_keys: []

network:
  cidr: 10.0.0.0/16
  zone: eu-central
  subnet_pairs: 1

assets:
  bucket: loadfleet-assets
  key: locustfile.py
  # endpoint: https://fsn1.your-objectstorage.com
  # region: fsn1
  # script_path: ./locustfile.py

bootstrap:
  os_family: debian
`

// Init writes a sample configuration to outputPath.
func Init(outputPath string, force bool) error {
	if fileExists(outputPath) {
		if !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", outputPath)
		}
		fmt.Fprintf(stdout, "Warning: %s already exists and will be overwritten.\n", outputPath)
	}

	if err := writeFile(outputPath, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(stdout, "Configuration saved to %s\n\n", outputPath)
	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintf(stdout, "  1. Edit %s and write your locustfile.py\n", outputPath)
	fmt.Fprintf(stdout, "  2. export %s=<your-token>\n", EnvHCloudToken)
	fmt.Fprintf(stdout, "  3. export %s=... %s=...\n", EnvS3AccessKey, EnvS3SecretKey)
	fmt.Fprintln(stdout, "  4. loadfleet plan, then loadfleet apply")
	return nil
}
