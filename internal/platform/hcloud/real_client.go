package hcloud

import (
	"github.com/imamik/loadfleet/internal/config"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// RealClient implements InfrastructureManager using the Hetzner Cloud API.
type RealClient struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
}

var _ InfrastructureManager = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:   hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("loadfleet", "")),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
