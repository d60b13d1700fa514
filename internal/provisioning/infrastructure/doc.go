// Package infrastructure provisions the cluster network on Hetzner Cloud.
//
// It creates the network with its public and private subnets, one firewall per
// security group built from the planned inbound rules, and the peering routes
// of the plan when the provider supports peering. All resources are labeled
// for cluster association. Existing resources are reused as they are.
package infrastructure
