package infrastructure

import (
	"fmt"
	"maps"
	"net"
	"slices"
	"strconv"

	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/util/labels"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ProvisionFirewalls creates one firewall per security group of the plan.
// Groups are processed in name order.
func (p *Provisioner) ProvisionFirewalls(ctx *provisioning.Context) error {
	groups := securityGroups(ctx.Plan)

	for _, name := range slices.Sorted(maps.Keys(groups)) {
		node := groups[name]
		ctx.Observer.Printf("[%s] Reconciling firewall %s...", phase, name)

		rules, err := BuildFirewallRules(node.InboundRules, ctx.Plan.Network.CIDR)
		if err != nil {
			return fmt.Errorf("firewall %s: %w", name, err)
		}

		fwLabels := labels.NewLabelBuilder(ctx.Plan.ClusterName).WithRole(string(node.Role)).Build()
		fw, err := ctx.Infra.EnsureFirewall(ctx, name, rules, fwLabels)
		if err != nil {
			return fmt.Errorf("failed to ensure firewall %s: %w", name, err)
		}
		ctx.State.Firewalls[name] = fw
		provisioning.LogResourceCreated(ctx.Observer, phase, "firewall", name, strconv.FormatInt(fw.ID, 10))
		ctx.Metrics.ResourceCreated("firewall")
	}
	return nil
}

// securityGroups maps every security group to the first node that uses it.
// All nodes of a group share the same inbound rules.
func securityGroups(plan *planner.ClusterPlan) map[string]planner.NodePlan {
	groups := make(map[string]planner.NodePlan)
	for _, n := range plan.Nodes {
		if _, ok := groups[n.SecurityGroup]; !ok {
			groups[n.SecurityGroup] = n
		}
	}
	return groups
}

// BuildFirewallRules converts planned inbound rules to hcloud firewall rules.
// Group sources become networkCIDR: members of a group reach each other over
// the cluster network. Only IPv4 sources are accepted, so no inbound IPv6
// traffic reaches any node.
func BuildFirewallRules(rules []planner.InboundRule, networkCIDR string) ([]hcloud.FirewallRule, error) {
	out := make([]hcloud.FirewallRule, 0, len(rules))
	for _, rule := range rules {
		source := rule.Source.Value
		if rule.Source.Kind == planner.SourceGroup {
			source = networkCIDR
		}
		_, sourceNet, err := net.ParseCIDR(source)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid source %q: %w", rule.Description, source, err)
		}
		// Nodes carry a public IPv6 address for outbound traffic only.
		if sourceNet.IP.To4() == nil {
			return nil, fmt.Errorf("rule %q: IPv6 source %q not allowed, IPv6 is outbound only", rule.Description, source)
		}

		protocol, err := parseProtocol(rule.Protocol)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Description, err)
		}

		r := hcloud.FirewallRule{
			Description: hcloud.Ptr(rule.Description),
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    protocol,
			SourceIPs:   []net.IPNet{*sourceNet},
		}
		if protocol == hcloud.FirewallRuleProtocolTCP || protocol == hcloud.FirewallRuleProtocolUDP {
			r.Port = hcloud.Ptr(rule.Ports.String())
		}
		out = append(out, r)
	}
	return out, nil
}

// parseProtocol converts a protocol string to hcloud.FirewallRuleProtocol.
func parseProtocol(protocol string) (hcloud.FirewallRuleProtocol, error) {
	switch protocol {
	case "tcp":
		return hcloud.FirewallRuleProtocolTCP, nil
	case "udp":
		return hcloud.FirewallRuleProtocolUDP, nil
	case "icmp":
		return hcloud.FirewallRuleProtocolICMP, nil
	default:
		return "", fmt.Errorf("unsupported protocol %q", protocol)
	}
}
