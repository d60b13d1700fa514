package planner

import (
	"fmt"

	"github.com/imamik/loadfleet/internal/config"
)

// NodeRole is the part a node plays in the load-test cluster.
type NodeRole string

const (
	// RoleMaster coordinates the run and serves the UI or headless summary.
	RoleMaster NodeRole = "master"
	// RoleWorker generates load and reports to the master.
	RoleWorker NodeRole = "worker"
)

// SubnetKind tells whether a subnet is publicly routable.
type SubnetKind string

const (
	SubnetPublic  SubnetKind = "public"
	SubnetPrivate SubnetKind = "private"
)

// SourceKind selects how an inbound rule source is interpreted.
type SourceKind string

const (
	// SourceCIDR matches an address range.
	SourceCIDR SourceKind = "cidr"
	// SourceGroup matches every node of a security group.
	SourceGroup SourceKind = "group"
)

// PortRange is an inclusive TCP/UDP port range.
type PortRange struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// Port returns a range covering a single port.
func Port(p int) PortRange {
	return PortRange{From: p, To: p}
}

// String formats the range the way firewall APIs expect it ("22" or "1000-2000").
func (p PortRange) String() string {
	if p.From == p.To {
		return fmt.Sprintf("%d", p.From)
	}
	return fmt.Sprintf("%d-%d", p.From, p.To)
}

// SourceSelector names where inbound traffic may come from.
type SourceSelector struct {
	Kind  SourceKind `json:"kind" yaml:"kind"`
	Value string     `json:"value" yaml:"value"`
}

// InboundRule allows traffic on Ports from Source.
type InboundRule struct {
	Description string         `json:"description" yaml:"description"`
	Protocol    string         `json:"protocol" yaml:"protocol"`
	Ports       PortRange      `json:"ports" yaml:"ports"`
	Source      SourceSelector `json:"source" yaml:"source"`
}

// NodePlan is everything the executor needs to create one compute instance.
type NodePlan struct {
	Name         string   `json:"name" yaml:"name"`
	Role         NodeRole `json:"role" yaml:"role"`
	Ordinal      int      `json:"ordinal" yaml:"ordinal"`
	InstanceType string   `json:"instance_type" yaml:"instance_type"`

	// Subnet is the name of the subnet in Network.Subnets the node sits in.
	Subnet        string `json:"subnet" yaml:"subnet"`
	PublicIP      bool   `json:"public_ip" yaml:"public_ip"`
	SecurityGroup string `json:"security_group" yaml:"security_group"`

	BootstrapScript []string          `json:"bootstrap_script" yaml:"bootstrap_script"`
	InboundRules    []InboundRule     `json:"inbound_rules" yaml:"inbound_rules"`
	Labels          map[string]string `json:"labels" yaml:"labels"`
}

// RunCommand returns the last bootstrap command, the one that starts the tool.
func (n NodePlan) RunCommand() string {
	if len(n.BootstrapScript) == 0 {
		return ""
	}
	return n.BootstrapScript[len(n.BootstrapScript)-1]
}

// SubnetPlan is one subnet carved out of the cluster network.
type SubnetPlan struct {
	Name string     `json:"name" yaml:"name"`
	Kind SubnetKind `json:"kind" yaml:"kind"`
	CIDR string     `json:"cidr" yaml:"cidr"`
}

// NetworkPlan describes the cluster network.
type NetworkPlan struct {
	Name    string       `json:"name" yaml:"name"`
	CIDR    string       `json:"cidr" yaml:"cidr"`
	Zone    string       `json:"zone" yaml:"zone"`
	Subnets []SubnetPlan `json:"subnets" yaml:"subnets"`
}

// Subnet looks up a subnet by name.
func (n NetworkPlan) Subnet(name string) (SubnetPlan, bool) {
	for _, s := range n.Subnets {
		if s.Name == name {
			return s, true
		}
	}
	return SubnetPlan{}, false
}

// EntryPoint is the address published to the operator.
type EntryPoint struct {
	Node    string `json:"node" yaml:"node"`
	Address Value  `json:"address" yaml:"address"`
}

// AssetRef points at the shared test script in object storage.
type AssetRef struct {
	Bucket   string `json:"bucket" yaml:"bucket"`
	Key      string `json:"key" yaml:"key"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// RouteIntent is one route table entry to create for a peering relationship.
type RouteIntent struct {
	ID                 string `json:"id" yaml:"id"`
	SourceNetwork      string `json:"source_network" yaml:"source_network"`
	Subnet             Value  `json:"subnet" yaml:"subnet"`
	DestinationNetwork string `json:"destination_network" yaml:"destination_network"`
	DestinationCIDR    Value  `json:"destination_cidr" yaml:"destination_cidr"`
	ViaPeering         Value  `json:"via_peering" yaml:"via_peering"`
}

// ClusterPlan is the complete, immutable output of Plan.
type ClusterPlan struct {
	ClusterName   string            `json:"cluster_name" yaml:"cluster_name"`
	Visibility    config.Visibility `json:"visibility" yaml:"visibility"`
	Network       NetworkPlan       `json:"network" yaml:"network"`
	Nodes         []NodePlan        `json:"nodes" yaml:"nodes"`
	EntryPoint    EntryPoint        `json:"entry_point" yaml:"entry_point"`
	Assets        AssetRef          `json:"assets" yaml:"assets"`
	PeeringRoutes []RouteIntent     `json:"peering_routes,omitempty" yaml:"peering_routes,omitempty"`

	// Deferred lists every reference the executor must resolve, sorted.
	Deferred []string `json:"deferred" yaml:"deferred"`
}

// Master returns the master node plan.
func (p *ClusterPlan) Master() (NodePlan, bool) {
	for _, n := range p.Nodes {
		if n.Role == RoleMaster {
			return n, true
		}
	}
	return NodePlan{}, false
}

// Workers returns the worker node plans in ordinal order.
func (p *ClusterPlan) Workers() []NodePlan {
	var workers []NodePlan
	for _, n := range p.Nodes {
		if n.Role == RoleWorker {
			workers = append(workers, n)
		}
	}
	return workers
}

// HasPeering reports whether the plan carries peering routes.
func (p *ClusterPlan) HasPeering() bool {
	return len(p.PeeringRoutes) > 0
}
