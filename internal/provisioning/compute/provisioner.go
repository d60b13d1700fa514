package compute

import (
	"context"
	"fmt"
	"sync/atomic"

	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/util/async"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

const phase = "compute"

// Provisioner handles compute provisioning (master and workers).
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
// The master is created before the workers because the worker bootstrap
// scripts reference its private address.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Network == nil {
		return fmt.Errorf("network not initialized in provisioning state")
	}

	master, ok := ctx.Plan.Master()
	if !ok {
		return fmt.Errorf("plan has no master node")
	}
	if err := p.provisionMaster(ctx, master); err != nil {
		return err
	}

	if err := p.provisionWorkers(ctx, ctx.Plan.Workers()); err != nil {
		return err
	}

	return p.resolveEntryPoint(ctx)
}

// provisionMaster creates the master and records its addresses.
func (p *Provisioner) provisionMaster(ctx *provisioning.Context, node planner.NodePlan) error {
	ip, err := ctx.Plan.PrivateIP(node)
	if err != nil {
		return err
	}

	server, privateIP, err := p.ensureServer(ctx, node, ip)
	if err != nil {
		return err
	}

	ctx.State.SetValue(planner.RefMasterPrivateIP, privateIP)
	if public := hcloud_internal.ServerIPv4(server); public != "" {
		ctx.State.SetValue(planner.RefMasterPublicIP, public)
	}
	ctx.Observer.Printf("[%s] Master %s ready (private %s)", phase, node.Name, privateIP)
	return nil
}

// provisionWorkers creates all workers in parallel. Any failure fails the phase.
func (p *Provisioner) provisionWorkers(ctx *provisioning.Context, workers []planner.NodePlan) error {
	if len(workers) == 0 {
		return nil
	}

	total := len(workers)
	var done atomic.Int32
	tasks := make([]async.Task, 0, total)
	for _, node := range workers {
		tasks = append(tasks, async.Task{
			Name: node.Name,
			Func: func(gctx context.Context) error {
				ip, err := ctx.Plan.PrivateIP(node)
				if err != nil {
					return err
				}
				wctx := *ctx
				wctx.Context = gctx
				if _, _, err := p.ensureServer(&wctx, node, ip); err != nil {
					return err
				}
				ctx.Observer.Progress(phase, int(done.Add(1)), total)
				return nil
			},
		})
	}

	ctx.Observer.Printf("[%s] Creating %d workers in parallel...", phase, total)
	if err := async.RunParallel(ctx, tasks, ctx.Timeouts.Parallelism); err != nil {
		return fmt.Errorf("failed to provision workers: %w", err)
	}
	ctx.Observer.Printf("[%s] All %d workers ready", phase, total)
	return nil
}

// ensureServer returns the node's server, creating it when it does not exist,
// along with its private address.
func (p *Provisioner) ensureServer(ctx *provisioning.Context, node planner.NodePlan, privateIP string) (*hcloud.Server, string, error) {
	networkID := ctx.State.Network.ID

	existing, err := ctx.Infra.GetServerByName(ctx, node.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up server %s: %w", node.Name, err)
	}
	if existing != nil {
		ip := hcloud_internal.ServerPrivateIP(existing, networkID)
		if ip == "" {
			ip = privateIP
		}
		ctx.State.AddServer(node.Name, ip, existing)
		provisioning.LogResourceExists(ctx.Observer, phase, "server", node.Name, fmt.Sprint(existing.ID))
		return existing, ip, nil
	}

	resolved, err := node.Resolve(ctx.State.Values())
	if err != nil {
		return nil, "", err
	}
	userData, err := RenderUserData(resolved, UserDataOptions{
		AccessKey: ctx.AssetAccessKey,
		SecretKey: ctx.AssetSecretKey,
		Region:    ctx.Config.Assets.Region,
	})
	if err != nil {
		return nil, "", err
	}

	opts := hcloud_internal.ServerCreateOpts{
		Name:             node.Name,
		ImageType:        ctx.Config.Image,
		ServerType:       node.InstanceType,
		Location:         ctx.Config.Location,
		SSHKeys:          ctx.Config.SSHKeys,
		Labels:           node.Labels,
		UserData:         userData,
		NetworkID:        networkID,
		PrivateIP:        privateIP,
		FirewallIDs:      firewallIDs(ctx, node),
		EnablePublicIPv4: node.PublicIP,
		// Private nodes reach package mirrors and object storage over IPv6.
		// Their firewalls admit no IPv6 sources and the address is never
		// published.
		EnablePublicIPv6: true,
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, "server", node.Name)
	server, err := ctx.Infra.CreateServer(ctx, opts)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "server", node.Name, err)
		return nil, "", describeCreateError(ctx, node.Name, err)
	}

	ctx.State.AddServer(node.Name, privateIP, server)
	provisioning.LogResourceCreated(ctx.Observer, phase, "server", node.Name, fmt.Sprint(server.ID))
	ctx.Metrics.ResourceCreated("server")
	return server, privateIP, nil
}

// resolveEntryPoint publishes the address the operator connects to.
func (p *Provisioner) resolveEntryPoint(ctx *provisioning.Context) error {
	addr, err := ctx.Plan.EntryPoint.Address.Resolve(ctx.State.Values())
	if err != nil {
		return fmt.Errorf("entry point %s: %w", ctx.Plan.EntryPoint.Node, err)
	}
	ctx.State.EntryPoint = addr
	ctx.Observer.Printf("[%s] Entry point: %s", phase, addr)
	return nil
}

// describeCreateError adds what the operator can do about a failed server
// creation. The provider error stays wrapped.
func describeCreateError(ctx *provisioning.Context, name string, err error) error {
	switch {
	case hcloud_internal.IsQuotaExceeded(err):
		return fmt.Errorf("failed to create server %s: project server limit reached, the cluster needs %d servers: %w",
			name, len(ctx.Plan.Nodes), err)
	case hcloud_internal.IsRateLimited(err):
		return fmt.Errorf("failed to create server %s: API rate limit exceeded, rerun apply later to reuse the servers already created: %w",
			name, err)
	default:
		return fmt.Errorf("failed to create server %s: %w", name, err)
	}
}

func firewallIDs(ctx *provisioning.Context, node planner.NodePlan) []int64 {
	fw, ok := ctx.State.Firewalls[node.SecurityGroup]
	if !ok || fw == nil {
		return nil
	}
	return []int64{fw.ID}
}
