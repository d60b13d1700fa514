package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/loadfleet/cmd/loadfleet/handlers"
)

// overrideFlags binds the config override flags shared by plan and apply.
type overrideFlags struct {
	clusterSize   int
	headless      bool
	toolVersion   string
	users         int
	spawnRate     int
	peerNetworkID string
	peerCIDR      string
	instanceType  string
}

func (f *overrideFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.clusterSize, "cluster-size", 0, "Total number of nodes including the master")
	cmd.Flags().BoolVar(&f.headless, "headless", false, "Run headless in private subnets")
	cmd.Flags().StringVar(&f.toolVersion, "tool-version", "", "Pin the locust version")
	cmd.Flags().IntVar(&f.users, "users", 0, "Number of simulated users (headless)")
	cmd.Flags().IntVar(&f.spawnRate, "spawn-rate", 0, "Users spawned per second (headless)")
	cmd.Flags().StringVar(&f.peerNetworkID, "peer-network-id", "", "Network to peer the cluster network with")
	cmd.Flags().StringVar(&f.peerCIDR, "peer-cidr", "", "Address range of the peer network")
	cmd.Flags().StringVar(&f.instanceType, "instance-type", "", "Server type of every node")
}

// overrides returns only the flags the user set.
func (f *overrideFlags) overrides(cmd *cobra.Command) handlers.Overrides {
	var o handlers.Overrides
	changed := cmd.Flags().Changed
	if changed("cluster-size") {
		o.ClusterSize = &f.clusterSize
	}
	if changed("headless") {
		o.Headless = &f.headless
	}
	if changed("tool-version") {
		o.ToolVersion = &f.toolVersion
	}
	if changed("users") {
		o.Users = &f.users
	}
	if changed("spawn-rate") {
		o.SpawnRate = &f.spawnRate
	}
	if changed("peer-network-id") {
		o.PeerNetworkID = &f.peerNetworkID
	}
	if changed("peer-cidr") {
		o.PeerCIDR = &f.peerCIDR
	}
	if changed("instance-type") {
		o.InstanceType = &f.instanceType
	}
	return o
}
