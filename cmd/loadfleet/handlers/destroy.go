package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/provisioning/destroy"
)

// Destroy deletes every Hetzner Cloud resource of the configured cluster.
// The test script stays in object storage; 'loadfleet publish --remove'
// deletes it.
func Destroy(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.ClusterName == "" {
		return fmt.Errorf("cluster_name is required to select the resources to delete")
	}

	token := getenv(EnvHCloudToken)
	if token == "" {
		return fmt.Errorf("%s is not set", EnvHCloudToken)
	}

	logger, err := provisioning.NewLogger("")
	if err != nil {
		return err
	}

	pCtx := provisioning.NewContext(ctx, cfg, nil, newInfraClient(token), nil)
	pCtx.Observer = provisioning.NewLogrObserver(logger)

	p := destroy.NewProvisioner()
	if err := provisioning.RunPhases(pCtx, []provisioning.Phase{p}); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Cluster %s destroyed (%d resources deleted).\n", cfg.ClusterName, len(p.Deleted))
	return nil
}
