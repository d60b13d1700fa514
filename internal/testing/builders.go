package testing

import (
	"slices"

	"github.com/imamik/loadfleet/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with sensible defaults:
// a public cluster of three cx22 nodes.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			ClusterName:  "test-cluster",
			ClusterSize:  3,
			InstanceType: "cx22",
			Location:     "nbg1",
			SSHKeys:      []string{"ops"},
			Network: config.NetworkConfig{
				CIDR: "10.0.0.0/16",
				Zone: "eu-central",
			},
			Assets: config.AssetsConfig{
				Bucket: "loadfleet-assets",
				Key:    "locustfile.py",
			},
		},
	}
}

// WithClusterName sets the cluster name.
func (b *ConfigBuilder) WithClusterName(name string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ClusterName = name
	return nb
}

// WithClusterSize sets the total number of nodes.
func (b *ConfigBuilder) WithClusterSize(size int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ClusterSize = size
	return nb
}

// WithPrivate makes the cluster headless with the given run parameters.
func (b *ConfigBuilder) WithPrivate(users, spawnRate int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Visibility = config.VisibilityPrivate
	nb.cfg.UserCount = &users
	nb.cfg.SpawnRate = &spawnRate
	return nb
}

// WithToolVersion pins the load-testing tool version.
func (b *ConfigBuilder) WithToolVersion(version string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ToolVersion = version
	return nb
}

// WithPeering peers the cluster network. An empty peerCIDR is resolved at
// execution time.
func (b *ConfigBuilder) WithPeering(peerNetworkID, peerCIDR string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Peering = &config.PeeringConfig{PeerNetworkID: peerNetworkID, PeerCIDR: peerCIDR}
	return nb
}

// WithSSHKeys sets the SSH keys.
func (b *ConfigBuilder) WithSSHKeys(keys ...string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.SSHKeys = keys
	return nb
}

// WithAssetEndpoint points the asset store at an S3-compatible endpoint.
func (b *ConfigBuilder) WithAssetEndpoint(endpoint string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Assets.Endpoint = endpoint
	return nb
}

// Build returns the constructed config with defaults applied.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	cfg.ApplyDefaults()
	return &cfg
}

// clone creates a deep copy of the builder for immutability.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	newCfg.SSHKeys = slices.Clone(b.cfg.SSHKeys)
	if b.cfg.UserCount != nil {
		v := *b.cfg.UserCount
		newCfg.UserCount = &v
	}
	if b.cfg.SpawnRate != nil {
		v := *b.cfg.SpawnRate
		newCfg.SpawnRate = &v
	}
	if b.cfg.Peering != nil {
		p := *b.cfg.Peering
		newCfg.Peering = &p
	}
	return &ConfigBuilder{cfg: newCfg}
}
