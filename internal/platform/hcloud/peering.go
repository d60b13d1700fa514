package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// SupportsPeering reports false: Hetzner Cloud networks cannot be peered.
func (c *RealClient) SupportsPeering() bool {
	return false
}

// EnsurePeering always fails with ErrPeeringUnsupported.
func (c *RealClient) EnsurePeering(_ context.Context, network *hcloud.Network, peerNetworkID string) (*Peering, error) {
	name := ""
	if network != nil {
		name = network.Name
	}
	return nil, fmt.Errorf("peer %s with %s: %w", name, peerNetworkID, ErrPeeringUnsupported)
}

// CreateRoute always fails with ErrPeeringUnsupported.
func (c *RealClient) CreateRoute(_ context.Context, route Route) error {
	return fmt.Errorf("route %s: %w", route.Name, ErrPeeringUnsupported)
}
