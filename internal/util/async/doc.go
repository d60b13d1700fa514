// Package async provides utilities for parallel task execution.
//
// [RunParallel] executes independent operations concurrently on an
// errgroup and returns the first error. It is used by provisioning to
// create worker nodes in parallel.
package async
