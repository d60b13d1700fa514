package infrastructure

import (
	"fmt"
	"strconv"

	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/util/labels"
)

// ProvisionNetwork provisions the cluster network and all planned subnets.
func (p *Provisioner) ProvisionNetwork(ctx *provisioning.Context) error {
	plan := ctx.Plan.Network
	ctx.Observer.Printf("[%s] Reconciling network %s (%s)...", phase, plan.Name, plan.CIDR)

	existing, err := ctx.Infra.GetNetwork(ctx, plan.Name)
	if err != nil {
		return fmt.Errorf("failed to look up network %s: %w", plan.Name, err)
	}
	if existing == nil {
		provisioning.LogResourceCreating(ctx.Observer, phase, "network", plan.Name)
	}

	networkLabels := labels.NewLabelBuilder(ctx.Plan.ClusterName).Build()
	network, err := ctx.Infra.EnsureNetwork(ctx, plan.Name, plan.CIDR, networkLabels)
	if err != nil {
		return fmt.Errorf("failed to ensure network: %w", err)
	}
	ctx.State.Network = network

	id := strconv.FormatInt(network.ID, 10)
	if existing != nil {
		provisioning.LogResourceExists(ctx.Observer, phase, "network", plan.Name, id)
	} else {
		provisioning.LogResourceCreated(ctx.Observer, phase, "network", plan.Name, id)
		ctx.Metrics.ResourceCreated("network")
	}

	for _, subnet := range plan.Subnets {
		if err := ctx.Infra.EnsureSubnet(ctx, network, subnet.CIDR, plan.Zone); err != nil {
			return fmt.Errorf("failed to ensure subnet %s (%s): %w", subnet.Name, subnet.CIDR, err)
		}
		ctx.Observer.Printf("[%s] Subnet %s ready (%s, %s)", phase, subnet.Name, subnet.CIDR, subnet.Kind)
	}
	return nil
}
