// Package naming provides consistent naming functions for cluster resources.
//
// Resource names follow the pattern {cluster}-{type} for infrastructure
// (networks, firewalls, subnets) and {cluster}-{role}[-{index}] for nodes.
// Names are deterministic so repeated plans of one config are identical.
package naming
