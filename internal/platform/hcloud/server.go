package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CreateServer creates a new server with the given specifications.
// A server attached to a network is created stopped, attached with its fixed
// private IP and then powered on, so it boots with the address in place.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	if (opts.NetworkID != 0) != (opts.PrivateIP != "") {
		return nil, fmt.Errorf("networkID and privateIP must both be provided or both be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	result, _, err := c.client.Server.Create(ctx, createOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", opts.Name, err)
	}
	if err := waitForActions(ctx, c.client, result.Action); err != nil {
		return nil, fmt.Errorf("failed to wait for server creation: %w", err)
	}
	if err := waitForActions(ctx, c.client, result.NextActions...); err != nil {
		return nil, fmt.Errorf("failed to wait for server setup: %w", err)
	}

	if opts.NetworkID != 0 {
		if err := c.attachServerToNetwork(ctx, result.Server, opts.NetworkID, opts.PrivateIP); err != nil {
			return nil, err
		}
		if err := c.powerOn(ctx, result.Server); err != nil {
			return nil, err
		}
	}

	return result.Server, nil
}

// buildServerCreateOpts resolves all dependencies and builds server creation options.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	serverTypeObj, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverTypeObj == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", opts.ServerType)
	}

	imageObj, err := c.resolveImage(ctx, opts.ImageType, serverTypeObj)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	sshKeyObjs, err := c.resolveSSHKeys(ctx, opts.SSHKeys)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	locObj, err := c.resolveLocation(ctx, opts.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	var startAfterCreate *bool
	if opts.NetworkID != 0 {
		startAfterCreate = hcloud.Ptr(false)
	}

	firewalls := make([]*hcloud.ServerCreateFirewall, 0, len(opts.FirewallIDs))
	for _, id := range opts.FirewallIDs {
		firewalls = append(firewalls, &hcloud.ServerCreateFirewall{Firewall: hcloud.Firewall{ID: id}})
	}

	return hcloud.ServerCreateOpts{
		Name:             opts.Name,
		ServerType:       serverTypeObj,
		Image:            imageObj,
		SSHKeys:          sshKeyObjs,
		Labels:           opts.Labels,
		UserData:         opts.UserData,
		Location:         locObj,
		StartAfterCreate: startAfterCreate,
		Firewalls:        firewalls,
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: opts.EnablePublicIPv4,
			EnableIPv6: opts.EnablePublicIPv6,
		},
	}, nil
}

// GetServerByName returns the server with the given name, or nil if not found.
func (c *RealClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	server, _, err := c.client.Server.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", name, err)
	}
	return server, nil
}
