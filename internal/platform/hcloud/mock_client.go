package hcloud

import (
	"context"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// MockClient is a mock implementation of InfrastructureManager.
// Unset funcs fall back to a successful default.
type MockClient struct {
	CreateServerFunc    func(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	GetServerByNameFunc func(ctx context.Context, name string) (*hcloud.Server, error)

	// Network
	EnsureNetworkFunc func(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnetFunc  func(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error
	GetNetworkFunc    func(ctx context.Context, name string) (*hcloud.Network, error)

	// Firewall
	EnsureFirewallFunc func(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string) (*hcloud.Firewall, error)
	GetFirewallFunc    func(ctx context.Context, name string) (*hcloud.Firewall, error)

	// Peering
	SupportsPeeringFunc func() bool
	EnsurePeeringFunc   func(ctx context.Context, network *hcloud.Network, peerNetworkID string) (*Peering, error)
	CreateRouteFunc     func(ctx context.Context, route Route) error

	// Cleanup
	CleanupByLabelFunc func(ctx context.Context, labels map[string]string) ([]string, error)
}

var _ InfrastructureManager = (*MockClient)(nil)

// CreateServer mocks server creation. The default returns a server carrying
// the requested private IP and a documentation-range public IPv4.
func (m *MockClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, opts)
	}
	server := &hcloud.Server{ID: 1, Name: opts.Name, Labels: opts.Labels}
	if opts.EnablePublicIPv4 {
		server.PublicNet.IPv4 = hcloud.ServerPublicNetIPv4{IP: net.ParseIP("203.0.113.10")}
	}
	if opts.NetworkID != 0 {
		server.PrivateNet = []hcloud.ServerPrivateNet{{
			Network: &hcloud.Network{ID: opts.NetworkID},
			IP:      net.ParseIP(opts.PrivateIP),
		}}
	}
	return server, nil
}

// GetServerByName mocks server lookup. The default reports no server.
func (m *MockClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	if m.GetServerByNameFunc != nil {
		return m.GetServerByNameFunc(ctx, name)
	}
	return nil, nil
}

// EnsureNetwork mocks network creation.
func (m *MockClient) EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
	if m.EnsureNetworkFunc != nil {
		return m.EnsureNetworkFunc(ctx, name, ipRange, labels)
	}
	_, ipNet, _ := net.ParseCIDR(ipRange)
	return &hcloud.Network{ID: 1, Name: name, IPRange: ipNet, Labels: labels}, nil
}

// EnsureSubnet mocks subnet creation.
func (m *MockClient) EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, network, ipRange, networkZone)
	}
	return nil
}

// GetNetwork mocks network lookup.
func (m *MockClient) GetNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	if m.GetNetworkFunc != nil {
		return m.GetNetworkFunc(ctx, name)
	}
	return nil, nil
}

// EnsureFirewall mocks firewall creation.
func (m *MockClient) EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string) (*hcloud.Firewall, error) {
	if m.EnsureFirewallFunc != nil {
		return m.EnsureFirewallFunc(ctx, name, rules, labels)
	}
	return &hcloud.Firewall{ID: 1, Name: name, Rules: rules, Labels: labels}, nil
}

// GetFirewall mocks firewall lookup.
func (m *MockClient) GetFirewall(ctx context.Context, name string) (*hcloud.Firewall, error) {
	if m.GetFirewallFunc != nil {
		return m.GetFirewallFunc(ctx, name)
	}
	return nil, nil
}

// SupportsPeering mocks the peering capability. The default is false.
func (m *MockClient) SupportsPeering() bool {
	if m.SupportsPeeringFunc != nil {
		return m.SupportsPeeringFunc()
	}
	return false
}

// EnsurePeering mocks peering creation.
func (m *MockClient) EnsurePeering(ctx context.Context, network *hcloud.Network, peerNetworkID string) (*Peering, error) {
	if m.EnsurePeeringFunc != nil {
		return m.EnsurePeeringFunc(ctx, network, peerNetworkID)
	}
	return nil, ErrPeeringUnsupported
}

// CreateRoute mocks route creation.
func (m *MockClient) CreateRoute(ctx context.Context, route Route) error {
	if m.CreateRouteFunc != nil {
		return m.CreateRouteFunc(ctx, route)
	}
	return ErrPeeringUnsupported
}

// CleanupByLabel mocks label-scoped deletion. The default deletes nothing.
func (m *MockClient) CleanupByLabel(ctx context.Context, labels map[string]string) ([]string, error) {
	if m.CleanupByLabelFunc != nil {
		return m.CleanupByLabelFunc(ctx, labels)
	}
	return nil, nil
}
