// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/imamik/loadfleet/internal/config"
)

// Environment variables read by the handlers.
const (
	EnvHCloudToken = "HCLOUD_TOKEN"
	EnvS3AccessKey = "LOADFLEET_S3_ACCESS_KEY"
	EnvS3SecretKey = "LOADFLEET_S3_SECRET_KEY"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile finds the default config file.
	findConfigFile = config.FindConfigFile

	// readFile reads a file (for testing injection).
	readFile = os.ReadFile

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// getenv reads the environment (for testing injection).
	getenv = os.Getenv

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// Overrides are command-line values that take precedence over the config file.
// Nil fields leave the file's value alone.
type Overrides struct {
	ClusterSize   *int
	Headless      *bool
	ToolVersion   *string
	Users         *int
	SpawnRate     *int
	PeerNetworkID *string
	PeerCIDR      *string
	InstanceType  *string
}

// Apply writes the set overrides into cfg.
func (o Overrides) Apply(cfg *config.Config) {
	if o.ClusterSize != nil {
		cfg.ClusterSize = *o.ClusterSize
	}
	if o.Headless != nil {
		// The flag replaces both spellings so they cannot contradict.
		cfg.Headless = nil
		cfg.Visibility = config.VisibilityPublic
		if *o.Headless {
			cfg.Visibility = config.VisibilityPrivate
		}
	}
	if o.ToolVersion != nil {
		cfg.ToolVersion = *o.ToolVersion
	}
	if o.Users != nil {
		cfg.UserCount = o.Users
	}
	if o.SpawnRate != nil {
		cfg.SpawnRate = o.SpawnRate
	}
	if o.PeerNetworkID != nil || o.PeerCIDR != nil {
		if cfg.Peering == nil {
			cfg.Peering = &config.PeeringConfig{}
		}
		if o.PeerNetworkID != nil {
			cfg.Peering.PeerNetworkID = *o.PeerNetworkID
		}
		if o.PeerCIDR != nil {
			cfg.Peering.PeerCIDR = *o.PeerCIDR
		}
	}
	if o.InstanceType != nil {
		cfg.InstanceType = *o.InstanceType
	}
}

// loadConfig reads the configuration without validating it; planning
// validates after the overrides are applied.
// If configPath is empty, it looks for loadfleet.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'loadfleet init' to create one", err)
		}
		configPath = path
	}

	data, err := readFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	return cfg, nil
}
