package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Naming functions for cluster resources.
// Every resource name is derived from the cluster name so a whole cluster
// can be identified and cleaned up by prefix.

func Network(cluster string) string {
	return fmt.Sprintf("%s-net", cluster)
}

func Subnet(kind string, index int) string {
	return fmt.Sprintf("%s-%d", kind, index)
}

func Master(cluster string) string {
	return fmt.Sprintf("%s-master", cluster)
}

func Worker(cluster string, ordinal int) string {
	return fmt.Sprintf("%s-worker-%d", cluster, ordinal)
}

// SecurityGroup names the firewall shared by every node of one role.
func SecurityGroup(cluster, role string) string {
	return fmt.Sprintf("%s-%s", cluster, role)
}

// Route returns a stable identifier for a route entry. The suffix is a hash of
// the route's endpoints so the same route always gets the same name.
func Route(source, destination, subnet string) string {
	sum := sha256.Sum256([]byte(source + "|" + destination + "|" + subnet))
	return "peer-route-" + hex.EncodeToString(sum[:4])
}
