package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/loadfleet/internal/config"
	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/platform/s3"
	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/provisioning/assets"
)

// newAssetStore creates the object storage client for the configured bucket.
var newAssetStore = func(ctx context.Context, cfg *config.Config) (provisioning.AssetStore, error) {
	return s3.NewClient(ctx, s3.Options{
		Endpoint:  cfg.Assets.Endpoint,
		Region:    cfg.Assets.Region,
		AccessKey: getenv(EnvS3AccessKey),
		SecretKey: getenv(EnvS3SecretKey),
	})
}

// Publish uploads the test script to object storage, or removes it.
func Publish(ctx context.Context, configPath string, remove bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	plan, err := planner.Plan(cfg)
	if err != nil {
		return err
	}

	store, err := newAssetStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create asset store client: %w", err)
	}

	ref := plan.Assets
	if remove {
		if err := assets.Remove(ctx, store, ref); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Removed s3://%s/%s\n", ref.Bucket, ref.Key)
		return nil
	}

	pCtx := provisioning.NewContext(ctx, cfg, plan, nil, store)
	if err := provisioning.RunPhases(pCtx, []provisioning.Phase{assets.NewPublisher()}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Published %s to s3://%s/%s\n", cfg.Assets.ScriptPath, ref.Bucket, ref.Key)
	return nil
}
