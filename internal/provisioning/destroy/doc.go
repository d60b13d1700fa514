// Package destroy handles cluster teardown.
//
// It removes the Hetzner Cloud resources of a cluster by querying them with
// the cluster label. Servers are deleted first, then firewalls, then the
// network. The published test script is left in object storage.
package destroy
