package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/loadfleet/internal/config"
	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/provisioning/assets"
	"github.com/imamik/loadfleet/internal/provisioning/compute"
	"github.com/imamik/loadfleet/internal/provisioning/infrastructure"
)

// Options tunes a reconciliation.
type Options struct {
	// SkipPublish assumes the test script is already in object storage.
	// Validation then checks that it is.
	SkipPublish bool

	// Observer receives progress. Defaults to a console observer.
	Observer provisioning.Observer

	// Metrics is optional.
	Metrics *provisioning.Metrics

	// Timeouts default to config.LoadTimeouts.
	Timeouts *config.Timeouts

	// Object storage credentials handed to the nodes.
	AssetAccessKey string
	AssetSecretKey string
}

// Result is the outcome of a successful reconciliation.
type Result struct {
	// Plan is the applied plan with every deferred reference resolved.
	Plan *planner.ClusterPlan

	// EntryPoint is the master address published to the operator.
	EntryPoint string

	// PrivateIPs maps node names to their private addresses.
	PrivateIPs map[string]string
}

// Reconciler orchestrates the cluster provisioning workflow.
type Reconciler struct {
	infra  hcloud_internal.InfrastructureManager
	assets provisioning.AssetStore
	config *config.Config
	opts   Options

	// Phases
	publisher          *assets.Publisher
	infraProvisioner   *infrastructure.Provisioner
	computeProvisioner *compute.Provisioner
}

// NewReconciler creates a new orchestration reconciler.
func NewReconciler(
	infra hcloud_internal.InfrastructureManager,
	store provisioning.AssetStore,
	cfg *config.Config,
	opts Options,
) *Reconciler {
	return &Reconciler{
		infra:              infra,
		assets:             store,
		config:             cfg,
		opts:               opts,
		publisher:          assets.NewPublisher(),
		infraProvisioner:   infrastructure.NewProvisioner(),
		computeProvisioner: compute.NewProvisioner(),
	}
}

// Phases returns the phases Reconcile runs, in order.
func (r *Reconciler) Phases() []provisioning.Phase {
	phases := []provisioning.Phase{provisioning.NewValidationPhase(r.opts.SkipPublish)}
	if !r.opts.SkipPublish {
		phases = append(phases, r.publisher)
	}
	return append(phases, r.infraProvisioner, r.computeProvisioner)
}

// Reconcile plans the configuration and creates the cluster.
// Configuration errors wrap config.ErrInvalidConfig and happen before any
// provider call.
func (r *Reconciler) Reconcile(ctx context.Context) (*Result, error) {
	plan, err := planner.Plan(r.config)
	if err != nil {
		return nil, err
	}

	pCtx := r.newContext(ctx, plan)
	pCtx.Metrics.RecordPlan(plan.ClusterName, 1, len(plan.Workers()))

	if err := provisioning.RunPhases(pCtx, r.Phases()); err != nil {
		return nil, err
	}

	resolved, err := plan.Resolve(pCtx.State.Values())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve applied plan: %w", err)
	}

	return &Result{
		Plan:       resolved,
		EntryPoint: pCtx.State.EntryPoint,
		PrivateIPs: pCtx.State.PrivateIPs(),
	}, nil
}

func (r *Reconciler) newContext(ctx context.Context, plan *planner.ClusterPlan) *provisioning.Context {
	// Phases read defaulted values such as the image and the script path.
	cfg := *r.config
	cfg.ApplyDefaults()

	pCtx := provisioning.NewContext(ctx, &cfg, plan, r.infra, r.assets)
	if r.opts.Observer != nil {
		pCtx.Observer = r.opts.Observer
	}
	if r.opts.Timeouts != nil {
		pCtx.Timeouts = r.opts.Timeouts
	}
	pCtx.Metrics = r.opts.Metrics
	pCtx.AssetAccessKey = r.opts.AssetAccessKey
	pCtx.AssetSecretKey = r.opts.AssetSecretKey
	return pCtx
}
