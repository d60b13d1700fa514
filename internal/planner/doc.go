// Package planner derives the topology of a load-testing cluster from its
// configuration.
//
// [Plan] is a pure function: it validates a [config.Config] and returns an
// immutable [ClusterPlan] describing the network, one master node, the
// worker nodes, their bootstrap scripts and inbound rules, and optional
// peering routes. Values only known once resources exist (the master's
// addresses, the peer network's range) are carried as references that the
// executor resolves with [ClusterPlan.Resolve] or [NodePlan.Resolve].
//
// Plans can be written and read back with [Encode] and [Decode].
package planner
