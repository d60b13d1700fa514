package infrastructure

import (
	"fmt"
	"strconv"
	"strings"

	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/provisioning"
)

// ProvisionPeering establishes the peering and creates the planned routes.
// It records peering.id, peer.cidr and peer.subnets in the state.
func (p *Provisioner) ProvisionPeering(ctx *provisioning.Context) error {
	plan := ctx.Plan
	if !plan.HasPeering() {
		return nil
	}
	if !ctx.Infra.SupportsPeering() {
		return fmt.Errorf("plan has %d peering routes: %w", len(plan.PeeringRoutes), hcloud_internal.ErrPeeringUnsupported)
	}

	peerID := peerNetworkID(plan)
	ctx.Observer.Printf("[%s] Peering %s with %s...", phase, plan.Network.Name, peerID)

	peering, err := ctx.Infra.EnsurePeering(ctx, ctx.State.Network, peerID)
	if err != nil {
		return fmt.Errorf("failed to ensure peering with %s: %w", peerID, err)
	}
	ctx.State.SetValue(planner.RefPeeringID, peering.ID)
	if peering.PeerCIDR != "" {
		ctx.State.SetValue(planner.RefPeerCIDR, peering.PeerCIDR)
	}
	if len(peering.PeerSubnets) > 0 {
		ctx.State.SetValue(planner.RefPeerSubnets, strings.Join(peering.PeerSubnets, ","))
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "peering", peerID, peering.ID)

	values := ctx.State.Values()
	for _, intent := range plan.PeeringRoutes {
		routes, err := expandRoute(intent, values)
		if err != nil {
			return err
		}
		for _, route := range routes {
			if err := ctx.Infra.CreateRoute(ctx, route); err != nil {
				return fmt.Errorf("failed to create route %s: %w", route.Name, err)
			}
			ctx.Metrics.ResourceCreated("route")
		}
		ctx.Observer.Printf("[%s] Route %s: %s -> %s (%d entries)", phase, intent.ID, intent.SourceNetwork, intent.DestinationNetwork, len(routes))
	}
	return nil
}

// peerNetworkID returns the destination of the routes leaving the cluster network.
func peerNetworkID(plan *planner.ClusterPlan) string {
	for _, r := range plan.PeeringRoutes {
		if r.SourceNetwork == plan.Network.Name {
			return r.DestinationNetwork
		}
	}
	return ""
}

// expandRoute resolves a route intent. A subnet value holding a comma
// separated list fans out into one route per subnet.
func expandRoute(intent planner.RouteIntent, values map[string]string) ([]hcloud_internal.Route, error) {
	subnets, err := intent.Subnet.Resolve(values)
	if err != nil {
		return nil, fmt.Errorf("route %s subnet: %w", intent.ID, err)
	}
	destination, err := intent.DestinationCIDR.Resolve(values)
	if err != nil {
		return nil, fmt.Errorf("route %s destination: %w", intent.ID, err)
	}
	via, err := intent.ViaPeering.Resolve(values)
	if err != nil {
		return nil, fmt.Errorf("route %s peering: %w", intent.ID, err)
	}

	parts := strings.Split(subnets, ",")
	routes := make([]hcloud_internal.Route, 0, len(parts))
	for i, subnet := range parts {
		name := intent.ID
		if len(parts) > 1 {
			name = intent.ID + "-" + strconv.Itoa(i)
		}
		routes = append(routes, hcloud_internal.Route{
			Name:            name,
			SourceNetwork:   intent.SourceNetwork,
			Subnet:          strings.TrimSpace(subnet),
			DestinationCIDR: destination,
			PeeringID:       via,
		})
	}
	return routes, nil
}
