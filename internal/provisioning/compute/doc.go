// Package compute provisions the master and worker servers on Hetzner Cloud.
//
// Every node gets a fixed private address in its subnet. The master is created
// first so that its addresses can be substituted into the worker bootstrap
// scripts; workers are then created in parallel. Each bootstrap script is
// rendered to a shell user-data document that runs once on first boot.
package compute
