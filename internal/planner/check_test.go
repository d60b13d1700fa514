package planner

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*ClusterPlan)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*ClusterPlan) {},
		},
		{
			name:    "no master",
			mutate:  func(p *ClusterPlan) { p.Nodes = p.Nodes[1:] },
			wantErr: "plan has 0 master nodes",
		},
		{
			name:    "gap in ordinals",
			mutate:  func(p *ClusterPlan) { p.Nodes[2].Ordinal = 5 },
			wantErr: "has ordinal 5, want 1",
		},
		{
			name:    "duplicate names",
			mutate:  func(p *ClusterPlan) { p.Nodes[2].Name = p.Nodes[1].Name },
			wantErr: "duplicate node name",
		},
		{
			name:    "unknown subnet",
			mutate:  func(p *ClusterPlan) { p.Nodes[0].Subnet = "public-9" },
			wantErr: `unknown subnet "public-9"`,
		},
		{
			name: "unknown group",
			mutate: func(p *ClusterPlan) {
				for i := range p.Nodes[1:] {
					p.Nodes[i+1].SecurityGroup = "other"
				}
			},
			wantErr: "unknown group",
		},
		{
			name:    "entry point not master",
			mutate:  func(p *ClusterPlan) { p.EntryPoint.Node = p.Nodes[1].Name },
			wantErr: "is not the master",
		},
		{
			name: "missing coordination rule",
			mutate: func(p *ClusterPlan) {
				p.Nodes[0].InboundRules = slices.DeleteFunc(p.Nodes[0].InboundRules, func(r InboundRule) bool {
					return r.Source.Kind == SourceGroup
				})
			},
			wantErr: "does not accept coordination traffic",
		},
		{
			name: "coordination rule on the wrong port",
			mutate: func(p *ClusterPlan) {
				for i, r := range p.Nodes[0].InboundRules {
					if r.Source.Kind == SourceGroup {
						p.Nodes[0].InboundRules[i].Ports = Port(8089)
					}
				}
			},
			wantErr: "does not accept coordination traffic",
		},
		{
			name:    "empty entry point address",
			mutate:  func(p *ClusterPlan) { p.EntryPoint.Address = Value{} },
			wantErr: "entry point has no address",
		},
		{
			name: "node beyond subnet capacity",
			mutate: func(p *ClusterPlan) {
				for i := range p.Network.Subnets {
					p.Network.Subnets[i].CIDR = "10.0.0.0/30"
				}
			},
			wantErr: "has no host 4",
		},
		{
			name:    "unknown deferred reference",
			mutate:  func(p *ClusterPlan) { p.Deferred = append(p.Deferred, "zone.id") },
			wantErr: `unknown reference "zone.id"`,
		},
		{
			name:    "unsorted deferred",
			mutate:  func(p *ClusterPlan) { p.Deferred[0], p.Deferred[1] = p.Deferred[1], p.Deferred[0] },
			wantErr: "not sorted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan, err := Plan(baseConfig(3))
			require.NoError(t, err)
			tt.mutate(plan)

			err = plan.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInconsistentPlan)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
