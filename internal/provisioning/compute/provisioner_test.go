package compute

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/imamik/loadfleet/internal/config"
	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/provisioning"
	testutil "github.com/imamik/loadfleet/internal/testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNetworkID = 42

// computeContext returns a context as the infrastructure phase leaves it.
func computeContext(t *testing.T, cfg *config.Config, infra hcloud_internal.InfrastructureManager) (*provisioning.Context, *testutil.RecordingObserver) {
	t.Helper()
	ctx, observer := testutil.NewPhaseContext(t, cfg, infra)
	ctx.State.Network = &hcloud.Network{ID: testNetworkID, Name: "test-cluster-net"}
	ctx.State.Firewalls["test-cluster-master"] = &hcloud.Firewall{ID: 100}
	ctx.State.Firewalls["test-cluster-worker"] = &hcloud.Firewall{ID: 101}
	return ctx, observer
}

func serversByName(opts []hcloud_internal.ServerCreateOpts) map[string]hcloud_internal.ServerCreateOpts {
	out := make(map[string]hcloud_internal.ServerCreateOpts, len(opts))
	for _, o := range opts {
		out[o.Name] = o
	}
	return out
}

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "compute", NewProvisioner().Name())
}

func TestProvision_PublicCluster(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()

	ctx, observer := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(3).Build(), mockInfra)

	require.NoError(t, NewProvisioner().Provision(ctx))

	created := fixture.CreatedServers()
	require.Len(t, created, 3)
	assert.Equal(t, "test-cluster-master", created[0].Name, "master is created first")

	byName := serversByName(created)
	master := byName["test-cluster-master"]
	assert.Equal(t, "10.0.0.2", master.PrivateIP)
	assert.Equal(t, int64(testNetworkID), master.NetworkID)
	assert.True(t, master.EnablePublicIPv4)
	assert.Equal(t, []int64{100}, master.FirewallIDs)
	assert.Equal(t, "cx22", master.ServerType)
	assert.Equal(t, "debian-12", master.ImageType)
	assert.Equal(t, []string{"ops"}, master.SSHKeys)
	assert.Contains(t, master.UserData, "locust --web-port 80 --locustfile locustfile.py --master")

	for _, name := range []string{"test-cluster-worker-0", "test-cluster-worker-1"} {
		worker := byName[name]
		assert.Equal(t, []int64{101}, worker.FirewallIDs)
		assert.Contains(t, worker.UserData, "--worker --master-host 10.0.0.2 ")
		assert.NotContains(t, worker.UserData, "${ref:")
	}
	assert.Equal(t, "10.0.0.3", byName["test-cluster-worker-0"].PrivateIP)
	assert.Equal(t, "10.0.0.4", byName["test-cluster-worker-1"].PrivateIP)

	assert.Equal(t, "198.51.100.1", ctx.State.EntryPoint)
	assert.Equal(t, map[string]string{
		"test-cluster-master":   "10.0.0.2",
		"test-cluster-worker-0": "10.0.0.3",
		"test-cluster-worker-1": "10.0.0.4",
	}, ctx.State.PrivateIPs())
	assert.Len(t, observer.EventsOfType(provisioning.EventResourceCreated), 3)
	assert.Len(t, observer.EventsOfType(provisioning.EventProgress), 2)
}

func TestProvision_PrivateCluster(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()

	cfg := testutil.NewConfigBuilder().WithClusterSize(2).WithPrivate(50, 5).Build()
	ctx, _ := computeContext(t, cfg, mockInfra)

	require.NoError(t, NewProvisioner().Provision(ctx))

	byName := serversByName(fixture.CreatedServers())
	master := byName["test-cluster-master"]
	assert.False(t, master.EnablePublicIPv4)
	assert.True(t, master.EnablePublicIPv6)
	assert.Equal(t, "10.0.1.2", master.PrivateIP)
	assert.Contains(t, master.UserData, "--headless --users 50 --spawn-rate 5")
	assert.Contains(t, master.UserData, "--expect-workers 1")

	assert.Contains(t, byName["test-cluster-worker-0"].UserData, "--master-host 10.0.1.2 ")
	assert.Equal(t, "10.0.1.2", ctx.State.EntryPoint)
	_, hasPublic := ctx.State.Values()[planner.RefMasterPublicIP]
	assert.False(t, hasPublic)
}

func TestProvision_Standalone(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()

	ctx, observer := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(1).Build(), mockInfra)

	require.NoError(t, NewProvisioner().Provision(ctx))
	require.Len(t, fixture.CreatedServers(), 1)
	assert.NotContains(t, fixture.CreatedServers()[0].UserData, "--master")
	assert.Empty(t, observer.EventsOfType(provisioning.EventProgress))
}

func TestProvision_ReusesExistingServer(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()
	mockInfra.GetServerByNameFunc = func(_ context.Context, name string) (*hcloud.Server, error) {
		if name != "test-cluster-master" {
			return nil, nil
		}
		return &hcloud.Server{
			ID:        7,
			Name:      name,
			PublicNet: hcloud.ServerPublicNet{IPv4: hcloud.ServerPublicNetIPv4{IP: net.ParseIP("203.0.113.7")}},
			PrivateNet: []hcloud.ServerPrivateNet{{
				Network: &hcloud.Network{ID: testNetworkID},
				IP:      net.ParseIP("10.0.0.9"),
			}},
		}, nil
	}

	ctx, observer := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(2).Build(), mockInfra)

	require.NoError(t, NewProvisioner().Provision(ctx))

	created := fixture.CreatedServers()
	require.Len(t, created, 1)
	assert.Equal(t, "test-cluster-worker-0", created[0].Name)
	assert.Contains(t, created[0].UserData, "--master-host 10.0.0.9 ")
	assert.Equal(t, "203.0.113.7", ctx.State.EntryPoint)
	assert.Len(t, observer.EventsOfType(provisioning.EventResourceExists), 1)
}

func TestProvision_WorkerFailure(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.WithServerError("test-cluster-worker-1", errors.New("resource_unavailable"))

	ctx, observer := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(3).Build(), mockInfra)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test-cluster-worker-1")
	assert.Contains(t, err.Error(), "resource_unavailable")
	assert.Empty(t, ctx.State.EntryPoint)
	assert.NotEmpty(t, observer.EventsOfType(provisioning.EventResourceFailed))
}

func TestProvision_CreateErrorHints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "server limit",
			err:     hcloud.Error{Code: hcloud.ErrorCodeResourceLimitExceeded, Message: "server limit reached"},
			wantMsg: "project server limit reached, the cluster needs 3 servers",
		},
		{
			name:    "rate limit",
			err:     hcloud.Error{Code: hcloud.ErrorCodeRateLimitExceeded, Message: "slow down"},
			wantMsg: "API rate limit exceeded",
		},
		{
			name:    "other error",
			err:     errors.New("boom"),
			wantMsg: "failed to create server test-cluster-worker-1: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fixture := testutil.NewInfraFixture()
			mockInfra := fixture.WithServerError("test-cluster-worker-1", tt.err)
			ctx, _ := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(3).Build(), mockInfra)

			err := NewProvisioner().Provision(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestProvision_MasterFailureSkipsWorkers(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.WithServerError("test-cluster-master", errors.New("quota exceeded"))

	ctx, _ := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(3).Build(), mockInfra)

	err := NewProvisioner().Provision(ctx)
	assert.ErrorContains(t, err, "failed to create server test-cluster-master")
	assert.Empty(t, fixture.CreatedServers())
}

func TestProvision_PublicMasterWithoutIPv4(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()
	mockInfra.CreateServerFunc = func(_ context.Context, opts hcloud_internal.ServerCreateOpts) (*hcloud.Server, error) {
		return &hcloud.Server{ID: 1, Name: opts.Name}, nil
	}

	ctx, _ := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(1).Build(), mockInfra)

	err := NewProvisioner().Provision(ctx)
	assert.ErrorIs(t, err, planner.ErrUnresolvedReference)
}

func TestProvision_RequiresNetwork(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	ctx, _ := testutil.NewPhaseContext(t, testutil.NewConfigBuilder().Build(), fixture.SuccessfulProvisioning())

	err := NewProvisioner().Provision(ctx)
	assert.ErrorContains(t, err, "network not initialized")
}

func TestProvision_InjectsAssetCredentials(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mockInfra := fixture.SuccessfulProvisioning()

	ctx, _ := computeContext(t, testutil.NewConfigBuilder().WithClusterSize(1).Build(), mockInfra)
	ctx.AssetAccessKey = "AKIA123"
	ctx.AssetSecretKey = "secret"

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Contains(t, fixture.CreatedServers()[0].UserData, "AWS_ACCESS_KEY_ID='AKIA123'")
}

func TestProvision_EndpointAndKeys(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	cfg := testutil.NewConfigBuilder().
		WithClusterSize(1).
		WithSSHKeys().
		WithAssetEndpoint("https://fsn1.your-objectstorage.com").
		Build()
	ctx, _ := computeContext(t, cfg, fixture.SuccessfulProvisioning())

	require.NoError(t, NewProvisioner().Provision(ctx))

	created := fixture.CreatedServers()
	require.Len(t, created, 1)
	assert.Empty(t, created[0].SSHKeys)
	assert.Contains(t, created[0].UserData, "--endpoint-url https://fsn1.your-objectstorage.com")
}
