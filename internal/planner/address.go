package planner

import (
	"fmt"
	"net/netip"

	"github.com/imamik/loadfleet/internal/config"
)

// Host offsets inside the node subnet. The provider keeps the first host
// address of every subnet for its gateway.
const (
	MasterHostOffset = 2
	WorkerHostOffset = 3
)

// HostOffset returns the host number of the node's private address: the
// master takes host 2 of its subnet and worker i takes host 3+i.
func (n NodePlan) HostOffset() int {
	if n.Role == RoleWorker {
		return WorkerHostOffset + n.Ordinal
	}
	return MasterHostOffset
}

// PrivateIP returns the fixed private address of node.
func (p *ClusterPlan) PrivateIP(node NodePlan) (string, error) {
	subnet, ok := p.Network.Subnet(node.Subnet)
	if !ok {
		return "", fmt.Errorf("node %s: unknown subnet %s", node.Name, node.Subnet)
	}
	offset := node.HostOffset()
	capacity, err := nodeCapacity(subnet.CIDR)
	if err != nil {
		return "", fmt.Errorf("node %s: invalid subnet %s: %w", node.Name, subnet.CIDR, err)
	}
	if offset >= MasterHostOffset+capacity {
		return "", fmt.Errorf("node %s: subnet %s has no host %d", node.Name, subnet.CIDR, offset)
	}
	ip, err := config.CIDRHost(subnet.CIDR, offset)
	if err != nil {
		return "", fmt.Errorf("node %s: failed to allocate private IP in %s: %w", node.Name, subnet.CIDR, err)
	}
	return ip, nil
}

// nodeCapacity returns how many nodes fit in cidr. Usable offsets run from
// MasterHostOffset up to the host before the broadcast address.
func nodeCapacity(cidr string) (int, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return 0, err
	}
	if !prefix.Addr().Is4() {
		return 0, fmt.Errorf("not an IPv4 prefix")
	}
	hosts := 1 << (32 - prefix.Bits())
	return max(hosts-1-MasterHostOffset, 0), nil
}
