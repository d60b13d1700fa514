package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CreateResult wraps the result of a resource creation operation.
// It handles both single and multiple actions that may need to be awaited.
type CreateResult[T any] struct {
	Resource T
	Action   *hcloud.Action
	Actions  []*hcloud.Action
}

// EnsureOperation encapsulates get-or-create logic for any hcloud resource.
// An existing resource is optionally validated but never modified.
//
// Usage example:
//
//	func (c *RealClient) EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
//	    return (&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts]{
//	        Name:         name,
//	        ResourceType: "network",
//	        Get:          c.client.Network.Get,
//	        Create:       simpleCreate(c.client.Network.Create),
//	        Validate: func(network *hcloud.Network) error {
//	            if network.IPRange.String() != ipRange {
//	                return fmt.Errorf("network exists with different IP range")
//	            }
//	            return nil
//	        },
//	        CreateOptsMapper: func() hcloud.NetworkCreateOpts {
//	            return hcloud.NetworkCreateOpts{Name: name, IPRange: ipNet, Labels: labels}
//	        },
//	    }).Execute(ctx, c)
//	}
type EnsureOperation[T any, CreateOpts any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Create creates the resource with the given options
	Create func(ctx context.Context, opts CreateOpts) (*CreateResult[T], *hcloud.Response, error)

	// Validate checks if existing resource matches desired state (optional)
	Validate func(resource T) error

	// CreateOptsMapper maps input parameters to create options
	CreateOptsMapper func() CreateOpts
}

// Execute performs the ensure operation: get existing resource, validate if needed, or create new.
func (op *EnsureOperation[T, CreateOpts]) Execute(ctx context.Context, client *RealClient) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Action)
	defer cancel()

	resource, _, err := op.Get(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s %s: %w", op.ResourceType, op.Name, err)
	}

	if !reflect.ValueOf(resource).IsNil() {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, err
			}
		}
		return resource, nil
	}

	result, _, err := op.Create(ctx, op.CreateOptsMapper())
	if err != nil {
		return zero, fmt.Errorf("failed to create %s %s: %w", op.ResourceType, op.Name, err)
	}

	if err := waitForActionResult(ctx, client.client, result); err != nil {
		return zero, fmt.Errorf("failed to wait for %s creation: %w", op.ResourceType, err)
	}

	return result.Resource, nil
}

// waitForActions waits for one or more actions to complete.
func waitForActions(ctx context.Context, client *hcloud.Client, actions ...*hcloud.Action) error {
	pending := make([]*hcloud.Action, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	return client.Action.WaitFor(ctx, pending...)
}

// waitForActionResult waits for actions from a CreateResult.
// Handles both singular Action and plural Actions fields.
func waitForActionResult[T any](ctx context.Context, client *hcloud.Client, result *CreateResult[T]) error {
	if result.Action != nil {
		return waitForActions(ctx, client, result.Action)
	}
	return waitForActions(ctx, client, result.Actions...)
}

// simpleCreate wraps create functions returning the resource directly.
func simpleCreate[T any, Opts any](
	createFn func(context.Context, Opts) (T, *hcloud.Response, error),
) func(context.Context, Opts) (*CreateResult[T], *hcloud.Response, error) {
	return func(ctx context.Context, opts Opts) (*CreateResult[T], *hcloud.Response, error) {
		resource, resp, err := createFn(ctx, opts)
		if err != nil {
			return nil, resp, err
		}
		return &CreateResult[T]{Resource: resource}, resp, nil
	}
}
