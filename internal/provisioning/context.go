package provisioning

import (
	"context"

	"github.com/imamik/loadfleet/internal/config"
	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/planner"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	Plan     *planner.ClusterPlan
	State    *State
	Infra    hcloud_internal.InfrastructureManager
	Assets   AssetStore
	Observer Observer
	Metrics  *Metrics
	Timeouts *config.Timeouts

	// Credentials exported to nodes so they can fetch the test script.
	// Empty values leave the nodes on their own credential chain.
	AssetAccessKey string
	AssetSecretKey string
}

// NewContext creates a new provisioning context with a console observer,
// timeouts from the environment and no metrics.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	plan *planner.ClusterPlan,
	infra hcloud_internal.InfrastructureManager,
	assets AssetStore,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Plan:     plan,
		State:    NewState(),
		Infra:    infra,
		Assets:   assets,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
	}
}
