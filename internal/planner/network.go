package planner

import (
	"fmt"

	"github.com/imamik/loadfleet/internal/config"
	"github.com/imamik/loadfleet/internal/util/naming"
)

// planNetwork splits the cluster range into public subnets followed by
// private subnets.
func planNetwork(cfg *config.Config) (NetworkPlan, error) {
	public, private, err := config.SplitSubnets(cfg.Network.CIDR, cfg.Network.SubnetPairs)
	if err != nil {
		return NetworkPlan{}, fmt.Errorf("failed to split network %s: %w", cfg.Network.CIDR, err)
	}

	subnets := make([]SubnetPlan, 0, len(public)+len(private))
	for i, cidr := range public {
		subnets = append(subnets, SubnetPlan{Name: naming.Subnet(string(SubnetPublic), i), Kind: SubnetPublic, CIDR: cidr})
	}
	for i, cidr := range private {
		subnets = append(subnets, SubnetPlan{Name: naming.Subnet(string(SubnetPrivate), i), Kind: SubnetPrivate, CIDR: cidr})
	}

	return NetworkPlan{
		Name:    naming.Network(cfg.ClusterName),
		CIDR:    cfg.Network.CIDR,
		Zone:    cfg.Network.Zone,
		Subnets: subnets,
	}, nil
}

// checkCapacity rejects fleets with more nodes than the node subnet has
// private addresses.
func checkCapacity(cfg *config.Config, network NetworkPlan, subnet string) error {
	s, ok := network.Subnet(subnet)
	if !ok {
		return fmt.Errorf("%w: node subnet %s not planned", config.ErrInvalidConfig, subnet)
	}
	capacity, err := nodeCapacity(s.CIDR)
	if err != nil {
		return fmt.Errorf("%w: subnet %s: %v", config.ErrInvalidConfig, s.CIDR, err)
	}
	if cfg.ClusterSize > capacity {
		return fmt.Errorf("%w: cluster_size %d exceeds the %d node addresses of subnet %s (%s)",
			config.ErrInvalidConfig, cfg.ClusterSize, capacity, s.Name, s.CIDR)
	}
	return nil
}

// nodeSubnet returns the subnet every node is placed in.
func nodeSubnet(cfg *config.Config) string {
	if cfg.IsPrivate() {
		return naming.Subnet(string(SubnetPrivate), 0)
	}
	return naming.Subnet(string(SubnetPublic), 0)
}
