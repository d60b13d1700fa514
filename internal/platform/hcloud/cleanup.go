package hcloud

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CleanupError collects the failures of a cleanup that kept going.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), errors.Join(e.Errors...))
}

func (e *CleanupError) Unwrap() []error {
	return e.Errors
}

// Add records err if it is not nil.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any deletion failed.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// BuildLabelSelector converts labels to a Hetzner Cloud label selector with
// keys in sorted order.
func BuildLabelSelector(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}

// CleanupByLabel deletes every server, firewall and network matching the
// labels, in that order, so nothing is deleted while still in use.
// Every resource is attempted; failures are returned as a *CleanupError.
// A failed deletion is not retried.
func (c *RealClient) CleanupByLabel(ctx context.Context, labels map[string]string) ([]string, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("refusing to clean up without a label selector")
	}
	selector := BuildLabelSelector(labels)
	listOpts := hcloud.ListOpts{LabelSelector: selector}
	cleanupErrs := &CleanupError{}
	var deleted []string

	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{ListOpts: listOpts})
	if err != nil {
		cleanupErrs.Add(fmt.Errorf("failed to list servers: %w", err))
	}
	for _, s := range servers {
		if err := c.deleteServer(ctx, s); err != nil {
			cleanupErrs.Add(fmt.Errorf("server %q: %w", s.Name, err))
			continue
		}
		deleted = append(deleted, "server "+s.Name)
	}

	firewalls, err := c.client.Firewall.AllWithOpts(ctx, hcloud.FirewallListOpts{ListOpts: listOpts})
	if err != nil {
		cleanupErrs.Add(fmt.Errorf("failed to list firewalls: %w", err))
	}
	for _, fw := range firewalls {
		if err := c.withActionTimeout(ctx, func(ctx context.Context) error {
			_, err := c.client.Firewall.Delete(ctx, fw)
			return err
		}); err != nil && !IsNotFound(err) {
			cleanupErrs.Add(fmt.Errorf("firewall %q: %w", fw.Name, err))
			continue
		}
		deleted = append(deleted, "firewall "+fw.Name)
	}

	networks, err := c.client.Network.AllWithOpts(ctx, hcloud.NetworkListOpts{ListOpts: listOpts})
	if err != nil {
		cleanupErrs.Add(fmt.Errorf("failed to list networks: %w", err))
	}
	for _, nw := range networks {
		if err := c.withActionTimeout(ctx, func(ctx context.Context) error {
			_, err := c.client.Network.Delete(ctx, nw)
			return err
		}); err != nil && !IsNotFound(err) {
			cleanupErrs.Add(fmt.Errorf("network %q: %w", nw.Name, err))
			continue
		}
		deleted = append(deleted, "network "+nw.Name)
	}

	if cleanupErrs.HasErrors() {
		return deleted, cleanupErrs
	}
	return deleted, nil
}

// deleteServer deletes a server and waits until it is gone, so firewalls and
// networks attached to it can be deleted afterwards.
func (c *RealClient) deleteServer(ctx context.Context, server *hcloud.Server) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	result, _, err := c.client.Server.DeleteWithResult(ctx, server)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	return waitForActions(ctx, c.client, result.Action)
}

func (c *RealClient) withActionTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Action)
	defer cancel()
	return fn(ctx)
}
