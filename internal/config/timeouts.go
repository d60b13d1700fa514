package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the per-call deadlines used by the provisioning executor.
// Calls are not retried; a call that exceeds its deadline fails the run.
type Timeouts struct {
	ServerCreate time.Duration // Timeout for a single server creation including its actions
	Action       time.Duration // Timeout for network, subnet and firewall actions
	Publish      time.Duration // Timeout for uploading the test script
	Parallelism  int           // Maximum number of concurrent worker creations
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - LOADFLEET_TIMEOUT_SERVER_CREATE (default: 10m)
//   - LOADFLEET_TIMEOUT_ACTION (default: 2m)
//   - LOADFLEET_TIMEOUT_PUBLISH (default: 1m)
//   - LOADFLEET_PARALLELISM (default: 10)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ServerCreate: parseDuration("LOADFLEET_TIMEOUT_SERVER_CREATE", 10*time.Minute),
		Action:       parseDuration("LOADFLEET_TIMEOUT_ACTION", 2*time.Minute),
		Publish:      parseDuration("LOADFLEET_TIMEOUT_PUBLISH", time.Minute),
		Parallelism:  parseInt("LOADFLEET_PARALLELISM", 10),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}
