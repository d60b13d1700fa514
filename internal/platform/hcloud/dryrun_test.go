package hcloud

import (
	"context"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunClient_NetworkAndSubnets(t *testing.T) {
	t.Parallel()
	d := NewDryRunClient(logr.Discard())
	ctx := context.Background()

	nw, err := d.EnsureNetwork(ctx, "loadtest-net", "10.0.0.0/16", nil)
	require.NoError(t, err)
	again, err := d.EnsureNetwork(ctx, "loadtest-net", "10.0.0.0/16", nil)
	require.NoError(t, err)
	assert.Same(t, nw, again)

	require.NoError(t, d.EnsureSubnet(ctx, nw, "10.0.0.0/24", "eu-central"))
	require.NoError(t, d.EnsureSubnet(ctx, nw, "10.0.0.0/24", "eu-central"))
	require.NoError(t, d.EnsureSubnet(ctx, nw, "10.0.1.0/24", "eu-central"))
	assert.Len(t, nw.Subnets, 2)

	got, err := d.GetNetwork(ctx, "loadtest-net")
	require.NoError(t, err)
	assert.Same(t, nw, got)

	assert.Equal(t, []string{
		"create network loadtest-net",
		"create subnet 10.0.0.0/24",
		"create subnet 10.0.1.0/24",
	}, d.Operations())
}

func TestDryRunClient_CreateServer(t *testing.T) {
	t.Parallel()
	d := NewDryRunClient(logr.Discard())
	ctx := context.Background()

	master, err := d.CreateServer(ctx, ServerCreateOpts{
		Name:             "loadtest-master",
		NetworkID:        1,
		PrivateIP:        "10.0.0.2",
		EnablePublicIPv4: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", ServerPrivateIP(master, 1))
	assert.NotEmpty(t, ServerIPv4(master))

	// Addresses are stable per name.
	other := NewDryRunClient(logr.Discard())
	same, err := other.CreateServer(ctx, ServerCreateOpts{Name: "loadtest-master", EnablePublicIPv4: true})
	require.NoError(t, err)
	assert.Equal(t, ServerIPv4(master), ServerIPv4(same))

	private, err := d.CreateServer(ctx, ServerCreateOpts{Name: "loadtest-worker-0", NetworkID: 1, PrivateIP: "10.0.0.3"})
	require.NoError(t, err)
	assert.Empty(t, ServerIPv4(private))

	_, err = d.CreateServer(ctx, ServerCreateOpts{Name: "loadtest-master"})
	assert.Error(t, err)

	_, err = d.CreateServer(ctx, ServerCreateOpts{Name: "x", NetworkID: 1})
	assert.Error(t, err)

	found, err := d.GetServerByName(ctx, "loadtest-worker-0")
	require.NoError(t, err)
	assert.Same(t, private, found)
}

func TestDryRunClient_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	t.Parallel()
	d := NewDryRunClient(logr.Discard())

	var wg sync.WaitGroup
	ids := make([]int64, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := d.CreateServer(context.Background(), ServerCreateOpts{Name: string(rune('a' + i))})
			if err == nil {
				ids[i] = s.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, id := range ids {
		assert.NotZero(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestDryRunClient_Peering(t *testing.T) {
	t.Parallel()
	d := NewDryRunClient(logr.Discard())
	ctx := context.Background()

	assert.True(t, d.SupportsPeering())
	nw, err := d.EnsureNetwork(ctx, "loadtest-net", "10.0.0.0/16", nil)
	require.NoError(t, err)

	p, err := d.EnsurePeering(ctx, nw, "peer-net")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.NotEmpty(t, p.PeerCIDR)
	assert.Len(t, p.PeerSubnets, 2)

	require.NoError(t, d.CreateRoute(ctx, Route{Name: "peer-route-1", PeeringID: p.ID}))
	assert.Contains(t, d.Operations(), "create route peer-route-1")
}
