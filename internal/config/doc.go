// Package config defines the cluster configuration record consumed by the
// topology planner and the provisioning executor.
//
// The [Config] struct is loaded from YAML with [LoadFile], completed by
// [Config.ApplyDefaults] and checked by [Config.Validate]. Every validation
// failure wraps [ErrInvalidConfig].
package config
