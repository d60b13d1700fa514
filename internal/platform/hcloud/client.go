package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ServerCreateOpts holds all parameters for creating an HCloud server.
type ServerCreateOpts struct {
	Name       string
	ImageType  string
	ServerType string
	Location   string
	SSHKeys    []string
	Labels     map[string]string
	UserData   string

	// NetworkID and PrivateIP attach the server to a private network with a
	// fixed address. Both or neither must be set.
	NetworkID int64
	PrivateIP string

	FirewallIDs      []int64
	EnablePublicIPv4 bool
	EnablePublicIPv6 bool
}

// Peering is an established peering between the cluster network and a peer.
type Peering struct {
	ID          string
	PeerCIDR    string
	PeerSubnets []string
}

// Route is a single route table entry sending traffic through a peering.
type Route struct {
	Name            string
	SourceNetwork   string
	Subnet          string
	DestinationCIDR string
	PeeringID       string
}

// ServerProvisioner defines the interface for provisioning servers.
type ServerProvisioner interface {
	// CreateServer creates a new server and returns it once it is running.
	// PublicIPv4/IPv6 control public IP assignment:
	// - both true: dual-stack
	// - IPv4=false, IPv6=true: IPv6-only
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	// GetServerByName returns the full server object by name, or nil if not found.
	GetServerByName(ctx context.Context, name string) (*hcloud.Server, error)
}

// NetworkManager defines the interface for managing networks.
type NetworkManager interface {
	EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error
	GetNetwork(ctx context.Context, name string) (*hcloud.Network, error)
}

// FirewallManager defines the interface for managing firewalls.
type FirewallManager interface {
	EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string) (*hcloud.Firewall, error)
	GetFirewall(ctx context.Context, name string) (*hcloud.Firewall, error)
}

// PeeringManager defines the interface for peering the cluster network with
// another network.
type PeeringManager interface {
	// SupportsPeering reports whether EnsurePeering and CreateRoute can succeed.
	SupportsPeering() bool
	EnsurePeering(ctx context.Context, network *hcloud.Network, peerNetworkID string) (*Peering, error)
	CreateRoute(ctx context.Context, route Route) error
}

// ResourceCleaner deletes cluster resources.
type ResourceCleaner interface {
	// CleanupByLabel deletes every resource carrying all of labels and
	// returns a description of each deleted resource.
	CleanupByLabel(ctx context.Context, labels map[string]string) ([]string, error)
}

// InfrastructureManager combines all infrastructure interfaces.
type InfrastructureManager interface {
	ServerProvisioner
	NetworkManager
	FirewallManager
	PeeringManager
	ResourceCleaner
}
