package hcloud

import (
	"context"
	"fmt"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// resolveImage resolves an image name for the architecture of the server type.
func (c *RealClient) resolveImage(ctx context.Context, imageType string, serverTypeObj *hcloud.ServerType) (*hcloud.Image, error) {
	imageObj, _, err := c.client.Image.GetForArchitecture(ctx, imageType, serverTypeObj.Architecture)
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	if imageObj == nil {
		return nil, fmt.Errorf("image not found: %s (%s)", imageType, serverTypeObj.Architecture)
	}
	return imageObj, nil
}

// resolveSSHKeys resolves SSH key names/IDs to SSH key objects.
func (c *RealClient) resolveSSHKeys(ctx context.Context, sshKeys []string) ([]*hcloud.SSHKey, error) {
	var sshKeyObjs []*hcloud.SSHKey
	for _, key := range sshKeys {
		keyObj, _, err := c.client.SSHKey.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get ssh key %s: %w", key, err)
		}
		if keyObj == nil {
			return nil, fmt.Errorf("ssh key not found: %s", key)
		}
		sshKeyObjs = append(sshKeyObjs, keyObj)
	}
	return sshKeyObjs, nil
}

// resolveLocation resolves a location name to a location object.
func (c *RealClient) resolveLocation(ctx context.Context, location string) (*hcloud.Location, error) {
	if location == "" {
		return nil, nil
	}

	locObj, _, err := c.client.Location.Get(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get location %s: %w", location, err)
	}
	if locObj == nil {
		return nil, fmt.Errorf("location not found: %s", location)
	}
	return locObj, nil
}

// attachServerToNetwork attaches a server to a network with the specified private IP.
func (c *RealClient) attachServerToNetwork(ctx context.Context, server *hcloud.Server, networkID int64, privateIP string) error {
	ip := net.ParseIP(privateIP)
	if ip == nil {
		return fmt.Errorf("invalid private ip: %s", privateIP)
	}

	action, _, err := c.client.Server.AttachToNetwork(ctx, server, hcloud.ServerAttachToNetworkOpts{
		Network: &hcloud.Network{ID: networkID},
		IP:      ip,
	})
	if err != nil {
		return fmt.Errorf("failed to attach server %s to network: %w", server.Name, err)
	}
	if err := waitForActions(ctx, c.client, action); err != nil {
		return fmt.Errorf("failed to wait for network attachment: %w", err)
	}
	return nil
}

func (c *RealClient) powerOn(ctx context.Context, server *hcloud.Server) error {
	action, _, err := c.client.Server.Poweron(ctx, server)
	if err != nil {
		return fmt.Errorf("failed to power on server %s: %w", server.Name, err)
	}
	if err := waitForActions(ctx, c.client, action); err != nil {
		return fmt.Errorf("failed to wait for server power on: %w", err)
	}
	return nil
}

// ServerIPv4 extracts the public IPv4 address from a server, or empty string if not set.
func ServerIPv4(s *hcloud.Server) string {
	if s != nil && s.PublicNet.IPv4.IP != nil && !s.PublicNet.IPv4.IP.IsUnspecified() {
		return s.PublicNet.IPv4.IP.String()
	}
	return ""
}

// ServerPrivateIP returns the server's address in the given network, or empty string.
func ServerPrivateIP(s *hcloud.Server, networkID int64) string {
	if s == nil {
		return ""
	}
	for _, pn := range s.PrivateNet {
		if pn.Network != nil && pn.Network.ID == networkID && pn.IP != nil {
			return pn.IP.String()
		}
	}
	return ""
}
