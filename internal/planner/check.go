package planner

import (
	"errors"
	"fmt"
	"slices"

	"github.com/imamik/loadfleet/internal/config"
)

// Check verifies the plan's internal consistency: one master, contiguous
// worker ordinals, placements with a free private address, group rules
// naming a real group, the worker to master coordination rule, an entry
// point, and every reference declared in Deferred. Plan always returns plans that
// pass; Decode uses it to reject hand-edited ones.
func (p *ClusterPlan) Check() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	masters := 0
	nextOrdinal := 0
	names := make(map[string]bool, len(p.Nodes))
	groups := make(map[string]bool)
	for _, n := range p.Nodes {
		groups[n.SecurityGroup] = true
	}

	for _, n := range p.Nodes {
		if names[n.Name] {
			fail("duplicate node name %q", n.Name)
		}
		names[n.Name] = true

		switch n.Role {
		case RoleMaster:
			masters++
		case RoleWorker:
			if n.Ordinal != nextOrdinal {
				fail("worker %q has ordinal %d, want %d", n.Name, n.Ordinal, nextOrdinal)
			}
			nextOrdinal++
		default:
			fail("node %q has unknown role %q", n.Name, n.Role)
		}

		if _, ok := p.Network.Subnet(n.Subnet); !ok {
			fail("node %q is placed in unknown subnet %q", n.Name, n.Subnet)
		} else if _, err := p.PrivateIP(n); err != nil {
			fail("%v", err)
		}
		if len(n.BootstrapScript) == 0 {
			fail("node %q has no bootstrap script", n.Name)
		}
		for _, r := range n.InboundRules {
			if r.Source.Kind == SourceGroup && !groups[r.Source.Value] {
				fail("node %q allows traffic from unknown group %q", n.Name, r.Source.Value)
			}
		}
	}
	if masters != 1 {
		fail("plan has %d master nodes, want exactly 1", masters)
	}

	if master, ok := p.Master(); ok {
		if p.EntryPoint.Node != master.Name {
			fail("entry point %q is not the master %q", p.EntryPoint.Node, master.Name)
		}
		if workers := p.Workers(); len(workers) > 0 && !allowsCoordination(master, workers[0].SecurityGroup) {
			fail("master %q does not accept coordination traffic from group %q", master.Name, workers[0].SecurityGroup)
		}
	}
	if p.EntryPoint.Address == (Value{}) {
		fail("entry point has no address")
	}

	if !slices.IsSorted(p.Deferred) || len(slices.Compact(slices.Clone(p.Deferred))) != len(p.Deferred) {
		fail("deferred references are not sorted and unique")
	}
	for _, ref := range p.Deferred {
		if !isKnownRef(ref) {
			fail("unknown reference %q", ref)
		}
	}
	for _, ref := range p.collectRefs() {
		if !slices.Contains(p.Deferred, ref) {
			fail("reference %q is used but not declared", ref)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInconsistentPlan, errors.Join(errs...))
	}
	return nil
}

// allowsCoordination reports whether master accepts worker traffic on the
// coordination port.
func allowsCoordination(master NodePlan, workerGroup string) bool {
	for _, r := range master.InboundRules {
		if r.Source.Kind == SourceGroup && r.Source.Value == workerGroup &&
			r.Ports.From <= config.CoordinationPort && config.CoordinationPort <= r.Ports.To {
			return true
		}
	}
	return false
}
