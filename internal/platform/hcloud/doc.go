// Package hcloud provides a wrapper around the Hetzner Cloud API client for
// creating load-test clusters.
//
// # Architecture
//
//   - client.go: the InfrastructureManager interface and its parts
//   - real_client.go: RealClient construction and options
//   - operations.go: generic get-or-create operation
//   - network.go: network and subnet management
//   - firewall.go: firewall management
//   - server.go, server_helpers.go: server creation and network attachment
//   - peering.go: peering routes (unsupported on Hetzner Cloud)
//   - cleanup.go: label-scoped deletion for teardown
//   - dryrun.go: an InfrastructureManager that only records requests
//   - errors.go: error classification
//
// # Generic Operations
//
// EnsureOperation provides get-or-create semantics with optional validation:
//   - Simple Ensure: Get → return if exists → Create if not
//   - Ensure with Validation: Get → Validate if exists → Create if not
//
// Failed API calls are returned as-is. Nothing is retried.
//
// # Timeouts
//
// Timeouts come from config.Timeouts and can be overridden with
// LOADFLEET_TIMEOUT_SERVER_CREATE and LOADFLEET_TIMEOUT_ACTION.
package hcloud
