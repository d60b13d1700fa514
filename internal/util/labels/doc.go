// Package labels provides consistent labeling for cluster resources.
//
// All labels use the loadfleet.io domain prefix and follow a builder pattern
// for constructing label sets with cluster name, role and manager
// identification.
package labels
