package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/loadfleet/internal/config"
)

func TestPrivateIP(t *testing.T) {
	t.Parallel()
	plan := &ClusterPlan{
		Network: NetworkPlan{Subnets: []SubnetPlan{
			{Name: "public-0", CIDR: "10.0.0.0/24"},
			{Name: "tiny", CIDR: "10.0.9.0/29"},
		}},
	}

	tests := []struct {
		name    string
		node    NodePlan
		want    string
		wantErr string
	}{
		{name: "master", node: NodePlan{Role: RoleMaster, Subnet: "public-0"}, want: "10.0.0.2"},
		{name: "first worker", node: NodePlan{Role: RoleWorker, Subnet: "public-0"}, want: "10.0.0.3"},
		{name: "tenth worker", node: NodePlan{Role: RoleWorker, Ordinal: 9, Subnet: "public-0"}, want: "10.0.0.12"},
		{name: "last worker of a /24", node: NodePlan{Role: RoleWorker, Ordinal: 251, Subnet: "public-0"}, want: "10.0.0.254"},
		{name: "last usable host", node: NodePlan{Role: RoleWorker, Ordinal: 3, Subnet: "tiny"}, want: "10.0.9.6"},
		{name: "broadcast address", node: NodePlan{Role: RoleWorker, Ordinal: 4, Subnet: "tiny"}, wantErr: "has no host 7"},
		{name: "unknown subnet", node: NodePlan{Role: RoleMaster, Subnet: "private-3"}, wantErr: "unknown subnet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := plan.PrivateIP(tt.node)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNodeCapacity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cidr string
		want int
	}{
		{"10.0.0.0/24", 253},
		{"10.0.0.0/29", 5},
		{"10.0.0.0/30", 1},
		{"10.0.0.0/31", 0},
	}
	for _, tt := range tests {
		got, err := nodeCapacity(tt.cidr)
		require.NoError(t, err, tt.cidr)
		assert.Equal(t, tt.want, got, tt.cidr)
	}

	_, err := nodeCapacity("fd00::/64")
	assert.Error(t, err)
}

func TestPlan_FleetMustFitSubnet(t *testing.T) {
	t.Parallel()

	plan, err := Plan(baseConfig(253))
	require.NoError(t, err)
	last := plan.Workers()[251]
	ip, err := plan.PrivateIP(last)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.254", ip)

	plan, err = Plan(baseConfig(254))
	assert.Nil(t, plan)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "cluster_size 254 exceeds the 253 node addresses of subnet public-0")

	private := privateConfig(300)
	_, err = Plan(private)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "subnet private-0")
}
