package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/provisioning"
)

const phase = "assets"

// ScriptContentType is the content type the test script is stored with.
const ScriptContentType = "text/x-python"

// Publisher uploads the test script named by the configuration.
type Publisher struct {
	// ReadFile reads the local script. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// NewPublisher creates a new asset publisher.
func NewPublisher() *Publisher {
	return &Publisher{ReadFile: os.ReadFile}
}

// Name implements the provisioning.Phase interface.
func (p *Publisher) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Publisher) Provision(ctx *provisioning.Context) error {
	if ctx.Assets == nil {
		return fmt.Errorf("no asset store configured")
	}
	ref := ctx.Plan.Assets
	path := ctx.Config.Assets.ScriptPath

	data, err := p.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read test script: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Publish)
	defer cancel()

	if err := ensureBucket(publishCtx, ctx, ref.Bucket); err != nil {
		return err
	}

	ctx.Observer.Printf("[%s] Uploading %s to s3://%s/%s (%d bytes)...", phase, path, ref.Bucket, ref.Key, len(data))
	if err := ctx.Assets.PutObject(publishCtx, ref.Bucket, ref.Key, ScriptContentType, data); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "object", ref.Key, err)
		return fmt.Errorf("failed to publish test script: %w", err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "object", ref.Key, digest(data))
	ctx.Metrics.ResourceCreated("object")
	return nil
}

func ensureBucket(callCtx context.Context, ctx *provisioning.Context, bucket string) error {
	exists, err := ctx.Assets.BucketExists(callCtx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		provisioning.LogResourceExists(ctx.Observer, phase, "bucket", bucket, bucket)
		return nil
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, "bucket", bucket)
	if err := ctx.Assets.CreateBucket(callCtx, bucket); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "bucket", bucket, bucket)
	ctx.Metrics.ResourceCreated("bucket")
	return nil
}

// Remove deletes the published test script. The bucket is left in place.
func Remove(ctx context.Context, store provisioning.AssetStore, ref planner.AssetRef) error {
	exists, err := store.ObjectExists(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return fmt.Errorf("failed to check s3://%s/%s: %w", ref.Bucket, ref.Key, err)
	}
	if !exists {
		return nil
	}
	if err := store.DeleteObject(ctx, ref.Bucket, ref.Key); err != nil {
		return fmt.Errorf("failed to remove test script: %w", err)
	}
	return nil
}

// digest returns a short content hash used as the object's id in events.
func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:6])
}
