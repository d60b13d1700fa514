package provisioning

import (
	"maps"
	"sync"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
//
// Servers and Values are written by concurrent worker creation; use the
// accessor methods for them.
type State struct {
	// Infrastructure results (populated by infrastructure provisioner)
	Network   *hcloud.Network
	Firewalls map[string]*hcloud.Firewall // security group -> firewall

	// Compute results (populated by compute provisioner)
	EntryPoint string

	mu      sync.Mutex
	servers map[string]*hcloud.Server // node name -> server
	ips     map[string]string         // node name -> private IP
	values  map[string]string         // deferred reference -> value
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		Firewalls: make(map[string]*hcloud.Firewall),
		servers:   make(map[string]*hcloud.Server),
		ips:       make(map[string]string),
		values:    make(map[string]string),
	}
}

// SetValue records the value of a deferred reference.
func (s *State) SetValue(ref, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[ref] = value
}

// Values returns a copy of all resolved references.
func (s *State) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

// AddServer records a created server and its private IP.
func (s *State) AddServer(name, privateIP string, server *hcloud.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[name] = server
	s.ips[name] = privateIP
}

// Server returns the server created for a node.
func (s *State) Server(name string) (*hcloud.Server, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	srv, ok := s.servers[name]
	return srv, ok
}

// PrivateIPs returns a copy of the node name -> private IP map.
func (s *State) PrivateIPs() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.ips)
}
