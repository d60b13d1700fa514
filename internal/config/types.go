// Package config defines the configuration structure and methods for the application.
package config

// Visibility selects where the cluster nodes are reachable from.
type Visibility string

const (
	// VisibilityPublic places nodes in public subnets and serves the web UI.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate places nodes in private subnets and runs headless.
	VisibilityPrivate Visibility = "private"
)

// OS families understood by the bootstrap script generator.
const (
	OSFamilyRHEL   = "rhel"
	OSFamilyDebian = "debian"
)

// Config holds the application configuration.
type Config struct {
	ClusterName string `yaml:"cluster_name" validate:"required,dnslabel"`

	// ClusterSize is the total number of nodes including the master.
	// A size of 1 runs the tool standalone without workers.
	ClusterSize int `yaml:"cluster_size" validate:"min=1"`

	// Visibility is "public" (web UI on port 80) or "private" (headless).
	// Default: "public"
	Visibility Visibility `yaml:"visibility,omitempty" validate:"omitempty,oneof=public private"`

	// Headless is an alias for visibility: private. When both are set they
	// must agree.
	Headless *bool `yaml:"headless,omitempty"`

	// InstanceType is the provider specific size token (e.g. cx22).
	InstanceType string `yaml:"instance_type" validate:"required"`

	// ToolVersion pins the load-testing tool. Empty installs the latest release.
	ToolVersion string `yaml:"tool_version,omitempty" validate:"omitempty,toolversion"`

	// UserCount and SpawnRate drive a headless run. Required when private.
	UserCount *int `yaml:"user_count,omitempty" validate:"omitempty,min=0"`
	SpawnRate *int `yaml:"spawn_rate,omitempty" validate:"omitempty,min=0"`

	Location string   `yaml:"location,omitempty"`
	Image    string   `yaml:"image,omitempty"`
	SSHKeys  []string `yaml:"ssh_keys,omitempty"`

	Network   NetworkConfig   `yaml:"network"`
	Peering   *PeeringConfig  `yaml:"peering,omitempty"`
	Assets    AssetsConfig    `yaml:"assets"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

// NetworkConfig defines the network-related configuration.
type NetworkConfig struct {
	// CIDR is the address range of the cluster network.
	// Default: 10.0.0.0/16
	CIDR string `yaml:"cidr" validate:"omitempty,cidrv4"`

	// Zone is the provider network zone.
	// Default: eu-central
	Zone string `yaml:"zone"`

	// SubnetPairs is the number of public/private subnet pairs carved out of CIDR.
	// Default: 1
	SubnetPairs int `yaml:"subnet_pairs" validate:"omitempty,min=1,max=8"`
}

// PeeringConfig describes an existing network to peer with.
type PeeringConfig struct {
	PeerNetworkID string `yaml:"peer_network_id" validate:"required"`

	// PeerCIDR forces the destination CIDR for routes towards the peer.
	// When empty the peer network's own range is resolved at execution time.
	PeerCIDR string `yaml:"peer_cidr,omitempty" validate:"omitempty,cidrv4"`
}

// AssetsConfig locates the shared test script in object storage.
type AssetsConfig struct {
	Bucket string `yaml:"bucket" validate:"required"`

	// Key is the object key of the test script.
	// Default: locustfile.py
	Key string `yaml:"key"`

	// Endpoint overrides the S3 endpoint (S3-compatible object storage).
	Endpoint string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Region   string `yaml:"region,omitempty"`

	// ScriptPath is the local file uploaded by the publisher.
	// Default: Key
	ScriptPath string `yaml:"script_path,omitempty"`
}

// BootstrapConfig tunes the generated node bootstrap scripts.
type BootstrapConfig struct {
	// OSFamily selects the package manager used for setup.
	// Default: debian
	OSFamily string `yaml:"os_family" validate:"omitempty,oneof=rhel debian"`
}

// IsPrivate reports whether nodes run headless in private subnets.
func (c *Config) IsPrivate() bool {
	return c.EffectiveVisibility() == VisibilityPrivate
}

// EffectiveVisibility resolves the visibility from the explicit field or the
// headless alias.
func (c *Config) EffectiveVisibility() Visibility {
	if c.Visibility != "" {
		return c.Visibility
	}
	if c.Headless != nil && *c.Headless {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// WorkerCount returns the number of worker nodes the config asks for.
func (c *Config) WorkerCount() int {
	if c.ClusterSize <= 1 {
		return 0
	}
	return c.ClusterSize - 1
}

// Distributed reports whether the cluster runs in master/worker mode.
func (c *Config) Distributed() bool {
	return c.ClusterSize > 1
}
