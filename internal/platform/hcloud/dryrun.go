package hcloud

import (
	"context"
	"fmt"
	"hash/fnv"
	"net"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// DryRunClient implements InfrastructureManager without calling any API.
// Every request is logged and recorded; resources get deterministic fake IDs
// and public IPs from 203.0.113.0/24 (TEST-NET-3).
type DryRunClient struct {
	log logr.Logger

	mu         sync.Mutex
	nextID     int64
	networks   map[string]*hcloud.Network
	firewalls  map[string]*hcloud.Firewall
	servers    map[string]*hcloud.Server
	operations []string
}

var _ InfrastructureManager = (*DryRunClient)(nil)

// NewDryRunClient creates a dry-run client logging through log.
func NewDryRunClient(log logr.Logger) *DryRunClient {
	return &DryRunClient{
		log:       log.WithName("dry-run"),
		networks:  make(map[string]*hcloud.Network),
		firewalls: make(map[string]*hcloud.Firewall),
		servers:   make(map[string]*hcloud.Server),
	}
}

// Operations returns the recorded requests in the order they were made.
func (d *DryRunClient) Operations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.operations))
	copy(out, d.operations)
	return out
}

// record must be called with d.mu held.
func (d *DryRunClient) record(op string, keysAndValues ...any) {
	d.operations = append(d.operations, op)
	d.log.Info(op, keysAndValues...)
}

func (d *DryRunClient) allocateID() int64 {
	d.nextID++
	return d.nextID
}

// fakePublicIP derives a stable address for a server name.
func fakePublicIP(name string) net.IP {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return net.IPv4(203, 0, 113, byte(h.Sum32()%254)+1)
}

// CreateServer records the server and returns it with fake addresses.
func (d *DryRunClient) CreateServer(_ context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	if (opts.NetworkID != 0) != (opts.PrivateIP != "") {
		return nil, fmt.Errorf("networkID and privateIP must both be provided or both be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.servers[opts.Name]; exists {
		return nil, fmt.Errorf("server %s already exists", opts.Name)
	}

	server := &hcloud.Server{
		ID:     d.allocateID(),
		Name:   opts.Name,
		Labels: opts.Labels,
		Status: hcloud.ServerStatusRunning,
	}
	if opts.EnablePublicIPv4 {
		server.PublicNet.IPv4 = hcloud.ServerPublicNetIPv4{IP: fakePublicIP(opts.Name)}
	}
	if opts.NetworkID != 0 {
		server.PrivateNet = []hcloud.ServerPrivateNet{{
			Network: &hcloud.Network{ID: opts.NetworkID},
			IP:      net.ParseIP(opts.PrivateIP),
		}}
	}
	d.servers[opts.Name] = server

	d.record("create server "+opts.Name,
		"type", opts.ServerType,
		"image", opts.ImageType,
		"privateIP", opts.PrivateIP,
		"publicIPv4", opts.EnablePublicIPv4,
		"firewalls", opts.FirewallIDs,
		"userDataBytes", len(opts.UserData))
	return server, nil
}

// GetServerByName returns a server created earlier in this run, or nil.
func (d *DryRunClient) GetServerByName(_ context.Context, name string) (*hcloud.Server, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.servers[name], nil
}

// EnsureNetwork records the network, returning the existing one on repeat calls.
func (d *DryRunClient) EnsureNetwork(_ context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return nil, fmt.Errorf("invalid network ip range: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if nw, ok := d.networks[name]; ok {
		return nw, nil
	}
	nw := &hcloud.Network{ID: d.allocateID(), Name: name, IPRange: ipNet, Labels: labels}
	d.networks[name] = nw
	d.record("create network "+name, "ipRange", ipRange)
	return nw, nil
}

// EnsureSubnet records the subnet on the network.
func (d *DryRunClient) EnsureSubnet(_ context.Context, network *hcloud.Network, ipRange, networkZone string) error {
	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return fmt.Errorf("invalid subnet ip range: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, s := range network.Subnets {
		if s.IPRange != nil && s.IPRange.String() == ipNet.String() {
			return nil
		}
	}
	network.Subnets = append(network.Subnets, hcloud.NetworkSubnet{
		Type:        hcloud.NetworkSubnetTypeCloud,
		IPRange:     ipNet,
		NetworkZone: hcloud.NetworkZone(networkZone),
	})
	d.record("create subnet "+ipRange, "network", network.Name, "zone", networkZone)
	return nil
}

// GetNetwork returns a network created earlier in this run, or nil.
func (d *DryRunClient) GetNetwork(_ context.Context, name string) (*hcloud.Network, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.networks[name], nil
}

// EnsureFirewall records the firewall, returning the existing one on repeat calls.
func (d *DryRunClient) EnsureFirewall(_ context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string) (*hcloud.Firewall, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if fw, ok := d.firewalls[name]; ok {
		return fw, nil
	}
	fw := &hcloud.Firewall{ID: d.allocateID(), Name: name, Rules: rules, Labels: labels}
	d.firewalls[name] = fw
	d.record("create firewall "+name, "rules", len(rules))
	return fw, nil
}

// GetFirewall returns a firewall created earlier in this run, or nil.
func (d *DryRunClient) GetFirewall(_ context.Context, name string) (*hcloud.Firewall, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.firewalls[name], nil
}

// SupportsPeering reports true so peering plans can be previewed.
func (d *DryRunClient) SupportsPeering() bool {
	return true
}

// EnsurePeering returns a fake peering with a documentation peer range.
func (d *DryRunClient) EnsurePeering(_ context.Context, network *hcloud.Network, peerNetworkID string) (*Peering, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := &Peering{
		ID:          fmt.Sprintf("dryrun-peering-%d", d.allocateID()),
		PeerCIDR:    "198.51.100.0/24",
		PeerSubnets: []string{"198.51.100.0/25", "198.51.100.128/25"},
	}
	d.record("create peering "+p.ID, "network", network.Name, "peer", peerNetworkID)
	return p, nil
}

// CreateRoute records the route.
func (d *DryRunClient) CreateRoute(_ context.Context, route Route) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("create route "+route.Name,
		"source", route.SourceNetwork,
		"subnet", route.Subnet,
		"destination", route.DestinationCIDR,
		"peering", route.PeeringID)
	return nil
}

// CleanupByLabel removes the matching resources created earlier in this run.
// Servers go first, then firewalls, then networks.
func (d *DryRunClient) CleanupByLabel(_ context.Context, labels map[string]string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var deleted []string
	for _, name := range sortedKeys(d.servers) {
		if matchLabels(d.servers[name].Labels, labels) {
			delete(d.servers, name)
			d.record("delete server " + name)
			deleted = append(deleted, "server "+name)
		}
	}
	for _, name := range sortedKeys(d.firewalls) {
		if matchLabels(d.firewalls[name].Labels, labels) {
			delete(d.firewalls, name)
			d.record("delete firewall " + name)
			deleted = append(deleted, "firewall "+name)
		}
	}
	for _, name := range sortedKeys(d.networks) {
		if matchLabels(d.networks[name].Labels, labels) {
			delete(d.networks, name)
			d.record("delete network " + name)
			deleted = append(deleted, "network "+name)
		}
	}
	return deleted, nil
}

func matchLabels(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
