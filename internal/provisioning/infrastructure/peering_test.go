package infrastructure

import (
	"context"
	"errors"
	"sync"
	"testing"

	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/planner"
	testutil "github.com/imamik/loadfleet/internal/testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionPeering_NoPeering(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()
	mockInfra.EnsurePeeringFunc = func(context.Context, *hcloud.Network, string) (*hcloud_internal.Peering, error) {
		t.Error("peering must not be requested")
		return nil, nil
	}

	ctx, _ := testutil.NewPhaseContext(t, testutil.NewConfigBuilder().Build(), mockInfra)
	assert.NoError(t, NewProvisioner().ProvisionPeering(ctx))
}

func TestProvisionPeering_Unsupported(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()

	cfg := testutil.NewConfigBuilder().WithPeering("vpc-peer", "172.16.0.0/16").Build()
	ctx, _ := testutil.NewPhaseContext(t, cfg, mockInfra)

	err := NewProvisioner().ProvisionPeering(ctx)
	assert.ErrorIs(t, err, hcloud_internal.ErrPeeringUnsupported)
}

func TestProvisionPeering_ResolvesAndFansOut(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	fixture.SuccessfulProvisioning()
	mockInfra := fixture.WithPeering("172.16.0.0/16", "172.16.1.0/24", "172.16.2.0/24")

	var mu sync.Mutex
	var routes []hcloud_internal.Route
	mockInfra.CreateRouteFunc = func(_ context.Context, r hcloud_internal.Route) error {
		mu.Lock()
		defer mu.Unlock()
		routes = append(routes, r)
		return nil
	}

	cfg := testutil.NewConfigBuilder().WithPeering("vpc-peer", "").Build()
	ctx, _ := testutil.NewPhaseContext(t, cfg, mockInfra)
	require.NoError(t, NewProvisioner().ProvisionNetwork(ctx))
	require.NoError(t, NewProvisioner().ProvisionPeering(ctx))

	values := ctx.State.Values()
	assert.Equal(t, "pcx-1", values[planner.RefPeeringID])
	assert.Equal(t, "172.16.0.0/16", values[planner.RefPeerCIDR])
	assert.Equal(t, "172.16.1.0/24,172.16.2.0/24", values[planner.RefPeerSubnets])

	// Two primary subnets out, two peer subnets back.
	require.Len(t, routes, 4)
	assert.Equal(t, "10.0.0.0/24", routes[0].Subnet)
	assert.Equal(t, "172.16.0.0/16", routes[0].DestinationCIDR)
	assert.Equal(t, "pcx-1", routes[0].PeeringID)
	assert.Equal(t, "vpc-peer", routes[2].SourceNetwork)
	assert.Equal(t, "172.16.1.0/24", routes[2].Subnet)
	assert.Equal(t, "172.16.2.0/24", routes[3].Subnet)
	assert.Equal(t, "10.0.0.0/16", routes[3].DestinationCIDR)
	assert.NotEqual(t, routes[2].Name, routes[3].Name)
}

func TestProvisionPeering_MissingPeerCIDR(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	fixture.SuccessfulProvisioning()
	mockInfra := fixture.WithPeering("", "172.16.1.0/24")

	cfg := testutil.NewConfigBuilder().WithPeering("vpc-peer", "").Build()
	ctx, _ := testutil.NewPhaseContext(t, cfg, mockInfra)
	require.NoError(t, NewProvisioner().ProvisionNetwork(ctx))

	err := NewProvisioner().ProvisionPeering(ctx)
	assert.ErrorIs(t, err, planner.ErrUnresolvedReference)
}

func TestProvisionPeering_RouteError(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	fixture.SuccessfulProvisioning()
	mockInfra := fixture.WithPeering("172.16.0.0/16", "172.16.1.0/24")
	mockInfra.CreateRouteFunc = func(context.Context, hcloud_internal.Route) error {
		return errors.New("route table full")
	}

	cfg := testutil.NewConfigBuilder().WithPeering("vpc-peer", "").Build()
	ctx, _ := testutil.NewPhaseContext(t, cfg, mockInfra)
	require.NoError(t, NewProvisioner().ProvisionNetwork(ctx))

	err := NewProvisioner().ProvisionPeering(ctx)
	assert.ErrorContains(t, err, "route table full")
}
