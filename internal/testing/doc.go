// Package testing provides test utilities, builders, and fixtures for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - InfraFixture: Pre-configured mock infrastructure for common scenarios
//   - MockAssetStore: Shared testify mock for the object storage
//   - RecordingObserver: Observer that keeps every message and event
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithClusterSize(3).
//	    WithPrivate(100, 10).
//	    Build()
//
//	fixture := testing.NewInfraFixture()
//	mockInfra := fixture.SuccessfulProvisioning()
package testing
