package hcloud

import (
	"context"
	"fmt"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// EnsureNetwork ensures that a network exists with the given IP range.
// An existing network with a different range is an error.
func (c *RealClient) EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return nil, fmt.Errorf("invalid network ip range: %w", err)
	}

	return (&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts]{
		Name:         name,
		ResourceType: "network",
		Get:          c.client.Network.Get,
		Create:       simpleCreate(c.client.Network.Create),
		Validate: func(network *hcloud.Network) error {
			if network.IPRange.String() != ipNet.String() {
				return fmt.Errorf("network %s exists but with different IP range %s (expected %s)",
					name, network.IPRange.String(), ipNet.String())
			}
			return nil
		},
		CreateOptsMapper: func() hcloud.NetworkCreateOpts {
			return hcloud.NetworkCreateOpts{
				Name:    name,
				IPRange: ipNet,
				Labels:  labels,
			}
		},
	}).Execute(ctx, c)
}

// EnsureSubnet ensures that a cloud subnet exists in the given network.
func (c *RealClient) EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error {
	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return fmt.Errorf("invalid subnet ip range: %w", err)
	}

	for _, subnet := range network.Subnets {
		if subnet.IPRange != nil && subnet.IPRange.String() == ipNet.String() {
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Action)
	defer cancel()

	action, _, err := c.client.Network.AddSubnet(ctx, network, hcloud.NetworkAddSubnetOpts{
		Subnet: hcloud.NetworkSubnet{
			Type:        hcloud.NetworkSubnetTypeCloud,
			IPRange:     ipNet,
			NetworkZone: hcloud.NetworkZone(networkZone),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add subnet %s: %w", ipRange, err)
	}

	if err := waitForActions(ctx, c.client, action); err != nil {
		return fmt.Errorf("failed to wait for subnet creation: %w", err)
	}

	return nil
}

// GetNetwork returns the network with the given name.
func (c *RealClient) GetNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	network, _, err := c.client.Network.Get(ctx, name)
	return network, err
}
