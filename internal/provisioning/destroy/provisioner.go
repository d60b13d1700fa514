package destroy

import (
	"fmt"

	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/util/labels"
)

const phase = "destroy"

// Provisioner handles cluster destruction.
type Provisioner struct {
	// Deleted lists the resources removed by the last Provision call.
	Deleted []string
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision deletes every resource labeled with the cluster name.
// Resources of other clusters in the same project are untouched.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	ctx.Observer.Printf("[%s] Deleting resources of cluster %s", phase, ctx.Config.ClusterName)

	// Only the cluster label: resources created by an older release may carry
	// a different managed-by value.
	selector := map[string]string{labels.KeyCluster: ctx.Config.ClusterName}

	deleted, err := ctx.Infra.CleanupByLabel(ctx, selector)
	p.Deleted = deleted
	for _, r := range deleted {
		ctx.Observer.Printf("[%s] Deleted %s", phase, r)
	}
	if err != nil {
		return fmt.Errorf("failed to cleanup cluster resources: %w", err)
	}

	if len(deleted) == 0 {
		ctx.Observer.Printf("[%s] No resources found for cluster %s", phase, ctx.Config.ClusterName)
	}
	return nil
}
