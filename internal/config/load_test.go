package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `cluster_name: blog-load
cluster_size: 4
instance_type: cx32
headless: true
tool_version: 2.1.0
user_count: 500
spawn_rate: 25
network:
  cidr: 10.20.0.0/16
  subnet_pairs: 2
peering:
  peer_network_id: net-4711
assets:
  bucket: blog-load-assets
  endpoint: https://nbg1.your-objectstorage.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loadfleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "blog-load", cfg.ClusterName)
	assert.Equal(t, 4, cfg.ClusterSize)
	assert.True(t, cfg.IsPrivate())
	require.NotNil(t, cfg.UserCount)
	assert.Equal(t, 500, *cfg.UserCount)
	assert.Equal(t, 2, cfg.Network.SubnetPairs)
	require.NotNil(t, cfg.Peering)
	assert.Equal(t, "net-4711", cfg.Peering.PeerNetworkID)
	assert.Empty(t, cfg.Peering.PeerCIDR)

	// defaults
	assert.Equal(t, DefaultNetworkZone, cfg.Network.Zone)
	assert.Equal(t, DefaultAssetKey, cfg.Assets.Key)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(writeConfig(t, "cluster_name: a\nclustersize: 2\n"))
		assert.ErrorContains(t, err, "failed to unmarshal yaml")
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(writeConfig(t, "cluster_name: a\ncluster_size: 0\ninstance_type: cx22\nassets:\n  bucket: b\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultNetworkCIDR, cfg.Network.CIDR)
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := Marshal(cfg)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
