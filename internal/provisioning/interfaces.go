package provisioning

import "context"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// AssetStore is the object storage the test script is published to.
// Implemented by internal/platform/s3.Client.
type AssetStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, bucket string) error
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
	DeleteObject(ctx context.Context, bucket, key string) error
}
