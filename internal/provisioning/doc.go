// Package provisioning provides shared types, interfaces, and orchestration for
// turning a cluster plan into cloud resources.
//
// # Subpackages
//
//   - assets/: test script upload to object storage
//   - infrastructure/: network, subnets, firewalls, peering routes
//   - compute/: master and worker servers
//   - destroy/: label-scoped teardown
//
// # Core Types
//
// Context carries the plan, configuration, state, infrastructure client,
// asset store, observer and metrics.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (network, firewalls, servers and
// the values of deferred plan references).
package provisioning
