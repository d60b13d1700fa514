package planner

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Resolve returns a copy of the plan with every reference replaced by its
// value. It fails without a partial result when any deferred reference is
// missing from values.
func (p *ClusterPlan) Resolve(values map[string]string) (*ClusterPlan, error) {
	var missing []string
	for _, ref := range p.Deferred {
		if _, ok := values[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, strings.Join(missing, ", "))
	}

	out := p.Clone()
	for i := range out.Nodes {
		resolved, err := out.Nodes[i].Resolve(values)
		if err != nil {
			return nil, err
		}
		out.Nodes[i] = resolved
	}

	addr, err := out.EntryPoint.Address.Resolve(values)
	if err != nil {
		return nil, err
	}
	out.EntryPoint.Address = Lit(addr)

	for i := range out.PeeringRoutes {
		r := &out.PeeringRoutes[i]
		for _, v := range []*Value{&r.Subnet, &r.DestinationCIDR, &r.ViaPeering} {
			s, err := v.Resolve(values)
			if err != nil {
				return nil, err
			}
			*v = Lit(s)
		}
	}

	out.Deferred = []string{}
	return out, nil
}

// Resolve returns a copy of the node with the references in its bootstrap
// script substituted.
func (n NodePlan) Resolve(values map[string]string) (NodePlan, error) {
	out := n.clone()
	for i, cmd := range out.BootstrapScript {
		s, err := Substitute(cmd, values)
		if err != nil {
			return NodePlan{}, fmt.Errorf("node %s: %w", n.Name, err)
		}
		out.BootstrapScript[i] = s
	}
	return out, nil
}

// Clone returns a deep copy of the plan.
func (p *ClusterPlan) Clone() *ClusterPlan {
	out := *p
	out.Network.Subnets = slices.Clone(p.Network.Subnets)
	out.Nodes = make([]NodePlan, len(p.Nodes))
	for i, n := range p.Nodes {
		out.Nodes[i] = n.clone()
	}
	out.PeeringRoutes = slices.Clone(p.PeeringRoutes)
	out.Deferred = slices.Clone(p.Deferred)
	return &out
}

func (n NodePlan) clone() NodePlan {
	n.BootstrapScript = slices.Clone(n.BootstrapScript)
	n.InboundRules = slices.Clone(n.InboundRules)
	n.Labels = maps.Clone(n.Labels)
	return n
}
