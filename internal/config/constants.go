package config

// Common port numbers used throughout the application.
const (
	// SSHPort is the management access port opened on every node.
	SSHPort = 22

	// WebUIPort serves the load-testing tool's web UI in public mode.
	WebUIPort = 80

	// CoordinationPort is where the master listens for workers.
	CoordinationPort = 5557
)

// Defaults applied by ApplyDefaults.
const (
	DefaultNetworkCIDR = "10.0.0.0/16"
	DefaultNetworkZone = "eu-central"
	DefaultAssetKey    = "locustfile.py"
	DefaultImage       = "debian-12"
	DefaultLocation    = "nbg1"

	// subnetNewBits splits the network into /24 subnets for a /16 range.
	subnetNewBits = 8
)

// AnyIPv4 matches every IPv4 source address.
const AnyIPv4 = "0.0.0.0/0"
