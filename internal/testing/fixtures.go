package testing

import (
	"context"
	"net"
	"slices"
	"sync"

	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// InfraFixture provides pre-configured mock infrastructure for common test scenarios.
type InfraFixture struct {
	mock *hcloud_internal.MockClient

	mu      sync.Mutex
	nextID  int64
	servers []hcloud_internal.ServerCreateOpts
}

// NewInfraFixture creates a new infrastructure fixture.
func NewInfraFixture() *InfraFixture {
	return &InfraFixture{
		mock: &hcloud_internal.MockClient{},
	}
}

// Mock returns the underlying MockClient for custom configuration.
func (f *InfraFixture) Mock() *hcloud_internal.MockClient {
	return f.mock
}

// CreatedServers returns the options of every CreateServer call in call order.
func (f *InfraFixture) CreatedServers() []hcloud_internal.ServerCreateOpts {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.servers)
}

// SuccessfulProvisioning configures the mock for a successful provisioning scenario.
// Servers get increasing IDs and public IPs 198.51.100.<id>.
// Returns the same mock for chaining.
func (f *InfraFixture) SuccessfulProvisioning() *hcloud_internal.MockClient {
	f.NetworkOnly()
	f.mock.EnsureFirewallFunc = func(_ context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string) (*hcloud.Firewall, error) {
		return &hcloud.Firewall{ID: f.id(), Name: name, Rules: rules, Labels: labels}, nil
	}
	f.mock.CreateServerFunc = func(_ context.Context, opts hcloud_internal.ServerCreateOpts) (*hcloud.Server, error) {
		f.mu.Lock()
		f.servers = append(f.servers, opts)
		f.mu.Unlock()

		id := f.id()
		server := &hcloud.Server{ID: id, Name: opts.Name, Labels: opts.Labels}
		if opts.EnablePublicIPv4 {
			server.PublicNet.IPv4 = hcloud.ServerPublicNetIPv4{IP: net.IPv4(198, 51, 100, byte(id))}
		}
		if opts.NetworkID != 0 {
			server.PrivateNet = []hcloud.ServerPrivateNet{{
				Network: &hcloud.Network{ID: opts.NetworkID},
				IP:      net.ParseIP(opts.PrivateIP),
			}}
		}
		return server, nil
	}
	return f.mock
}

// NetworkOnly configures the mock for network-related tests only.
func (f *InfraFixture) NetworkOnly() *hcloud_internal.MockClient {
	f.mock.EnsureNetworkFunc = func(_ context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
		_, ipNet, _ := net.ParseCIDR(ipRange)
		return &hcloud.Network{ID: f.id(), Name: name, IPRange: ipNet, Labels: labels}, nil
	}
	f.mock.EnsureSubnetFunc = func(_ context.Context, _ *hcloud.Network, _, _ string) error {
		return nil
	}
	return f.mock
}

// WithNetworkError configures the mock to fail on network creation.
func (f *InfraFixture) WithNetworkError(err error) *hcloud_internal.MockClient {
	f.mock.EnsureNetworkFunc = func(_ context.Context, _, _ string, _ map[string]string) (*hcloud.Network, error) {
		return nil, err
	}
	return f.mock
}

// WithServerError configures a successful mock whose server creation fails
// for the named server.
func (f *InfraFixture) WithServerError(name string, err error) *hcloud_internal.MockClient {
	f.SuccessfulProvisioning()
	create := f.mock.CreateServerFunc
	f.mock.CreateServerFunc = func(ctx context.Context, opts hcloud_internal.ServerCreateOpts) (*hcloud.Server, error) {
		if opts.Name == name {
			return nil, err
		}
		return create(ctx, opts)
	}
	return f.mock
}

// WithPeering enables peering support with a fixed peer network.
func (f *InfraFixture) WithPeering(peerCIDR string, peerSubnets ...string) *hcloud_internal.MockClient {
	f.mock.SupportsPeeringFunc = func() bool { return true }
	f.mock.EnsurePeeringFunc = func(_ context.Context, _ *hcloud.Network, _ string) (*hcloud_internal.Peering, error) {
		return &hcloud_internal.Peering{ID: "pcx-1", PeerCIDR: peerCIDR, PeerSubnets: peerSubnets}, nil
	}
	f.mock.CreateRouteFunc = func(_ context.Context, _ hcloud_internal.Route) error {
		return nil
	}
	return f.mock
}

func (f *InfraFixture) id() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}
