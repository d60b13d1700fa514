package planner

import (
	"github.com/imamik/loadfleet/internal/config"
	"github.com/imamik/loadfleet/internal/util/naming"
)

// allPeerSubnets stands for every routable subnet of the peer network in
// route ids.
const allPeerSubnets = "*"

// planPeeringRoutes returns one primary->peer route per primary subnet and one
// peer->primary route fanned out over the peer's subnets.
func planPeeringRoutes(cfg *config.Config, network NetworkPlan) []RouteIntent {
	if cfg.Peering == nil {
		return nil
	}
	peer := cfg.Peering.PeerNetworkID

	destination := RefTo(RefPeerCIDR)
	if cfg.Peering.PeerCIDR != "" {
		destination = Lit(cfg.Peering.PeerCIDR)
	}
	via := RefTo(RefPeeringID)

	routes := make([]RouteIntent, 0, len(network.Subnets)+1)
	for _, s := range network.Subnets {
		routes = append(routes, RouteIntent{
			ID:                 naming.Route(network.Name, peer, s.Name),
			SourceNetwork:      network.Name,
			Subnet:             Lit(s.CIDR),
			DestinationNetwork: peer,
			DestinationCIDR:    destination,
			ViaPeering:         via,
		})
	}
	routes = append(routes, RouteIntent{
		ID:                 naming.Route(peer, network.Name, allPeerSubnets),
		SourceNetwork:      peer,
		Subnet:             RefTo(RefPeerSubnets),
		DestinationNetwork: network.Name,
		DestinationCIDR:    Lit(network.CIDR),
		ViaPeering:         via,
	})
	return routes
}
