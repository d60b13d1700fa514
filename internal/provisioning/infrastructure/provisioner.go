package infrastructure

import (
	"github.com/imamik/loadfleet/internal/provisioning"
)

const phase = "infrastructure"

// Provisioner handles infrastructure provisioning (network, firewalls, peering routes).
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Network and subnets
	if err := p.ProvisionNetwork(ctx); err != nil {
		return err
	}

	// 2. Firewalls
	if err := p.ProvisionFirewalls(ctx); err != nil {
		return err
	}

	// 3. Peering routes
	return p.ProvisionPeering(ctx)
}
