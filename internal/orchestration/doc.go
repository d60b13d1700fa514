// Package orchestration provides high-level workflow coordination for load-test
// cluster provisioning.
//
// This package orchestrates the provisioning workflow by delegating to specialized
// provisioners in the internal/provisioning subpackages. It defines the execution order
// and coordinates state flow between provisioning phases.
//
// # Workflow
//
// The Reconciler plans the configuration and executes the following phases in order:
//  1. Validation - Pre-flight checks of the plan against the provider
//  2. Assets - Test script upload to object storage (skippable)
//  3. Infrastructure - Network, subnets, firewalls and peering routes
//  4. Compute - Master first, then the workers in parallel
//
// # Usage
//
// The Reconciler is the main entry point:
//
//	reconciler := orchestration.NewReconciler(infraClient, assetStore, cfg, orchestration.Options{})
//	result, err := reconciler.Reconcile(ctx)
//	fmt.Println(result.EntryPoint)
//
// Existing servers, networks and firewalls are reused, so an interrupted run
// can be repeated.
package orchestration
