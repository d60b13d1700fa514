package planner

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/imamik/loadfleet/internal/config"
	"github.com/imamik/loadfleet/internal/util/labels"
	"github.com/imamik/loadfleet/internal/util/naming"
)

// Plan validates cfg and derives the cluster topology. It performs no I/O
// and is safe for concurrent use. cfg is not modified; defaults are applied
// to a copy.
//
// Any configuration problem is returned wrapped in config.ErrInvalidConfig
// and no plan is produced.
func Plan(cfg *config.Config) (*ClusterPlan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration", config.ErrInvalidConfig)
	}
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	network, err := planNetwork(&c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	subnet := nodeSubnet(&c)
	if err := checkCapacity(&c, network, subnet); err != nil {
		return nil, err
	}
	setup := setupCommands(&c)

	nodes := make([]NodePlan, 0, c.ClusterSize)
	nodes = append(nodes, NodePlan{
		Name:            naming.Master(c.ClusterName),
		Role:            RoleMaster,
		Ordinal:         0,
		InstanceType:    c.InstanceType,
		Subnet:          subnet,
		PublicIP:        !c.IsPrivate(),
		SecurityGroup:   naming.SecurityGroup(c.ClusterName, string(RoleMaster)),
		BootstrapScript: append(slices.Clone(setup), masterRunCommand(&c)),
		InboundRules:    masterRules(&c),
		Labels:          labels.NewLabelBuilder(c.ClusterName).WithRole(string(RoleMaster)).Build(),
	})
	for i := range c.WorkerCount() {
		nodes = append(nodes, NodePlan{
			Name:            naming.Worker(c.ClusterName, i),
			Role:            RoleWorker,
			Ordinal:         i,
			InstanceType:    c.InstanceType,
			Subnet:          subnet,
			PublicIP:        !c.IsPrivate(),
			SecurityGroup:   naming.SecurityGroup(c.ClusterName, string(RoleWorker)),
			BootstrapScript: append(slices.Clone(setup), workerRunCommand(&c)),
			InboundRules:    workerRules(),
			Labels: labels.NewLabelBuilder(c.ClusterName).
				WithRole(string(RoleWorker)).
				WithOrdinal(strconv.Itoa(i)).
				Build(),
		})
	}

	entry := RefTo(RefMasterPublicIP)
	if c.IsPrivate() {
		entry = RefTo(RefMasterPrivateIP)
	}

	plan := &ClusterPlan{
		ClusterName: c.ClusterName,
		Visibility:  c.EffectiveVisibility(),
		Network:     network,
		Nodes:       nodes,
		EntryPoint:  EntryPoint{Node: nodes[0].Name, Address: entry},
		Assets: AssetRef{
			Bucket:   c.Assets.Bucket,
			Key:      c.Assets.Key,
			Endpoint: c.Assets.Endpoint,
		},
		PeeringRoutes: planPeeringRoutes(&c, network),
	}
	plan.Deferred = plan.collectRefs()

	if err := plan.Check(); err != nil {
		return nil, err
	}
	return plan, nil
}

// collectRefs returns every reference used anywhere in the plan, sorted and
// without duplicates.
func (p *ClusterPlan) collectRefs() []string {
	var refs []string
	for _, n := range p.Nodes {
		for _, cmd := range n.BootstrapScript {
			refs = append(refs, Refs(cmd)...)
		}
	}
	values := []Value{p.EntryPoint.Address}
	for _, r := range p.PeeringRoutes {
		values = append(values, r.Subnet, r.DestinationCIDR, r.ViaPeering)
	}
	for _, v := range values {
		if v.IsRef() {
			refs = append(refs, v.Ref)
		}
	}
	slices.Sort(refs)
	return slices.Compact(refs)
}
