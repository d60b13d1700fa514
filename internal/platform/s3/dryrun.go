package s3

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
)

// DryRunStore is an in-memory asset store that logs every write instead of
// calling object storage.
type DryRunStore struct {
	log logr.Logger

	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

// NewDryRunStore creates an empty dry-run store logging through log.
func NewDryRunStore(log logr.Logger) *DryRunStore {
	return &DryRunStore{
		log:     log.WithName("dry-run"),
		buckets: make(map[string]map[string][]byte),
	}
}

// BucketExists reports whether the bucket was created in this run.
func (d *DryRunStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.buckets[bucket]
	return ok, nil
}

// CreateBucket records the bucket.
func (d *DryRunStore) CreateBucket(_ context.Context, bucket string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.buckets[bucket]; !ok {
		d.buckets[bucket] = make(map[string][]byte)
		d.log.Info("create bucket " + bucket)
	}
	return nil
}

// ObjectExists reports whether the object was put in this run.
func (d *DryRunStore) ObjectExists(_ context.Context, bucket, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.buckets[bucket][key]
	return ok, nil
}

// PutObject stores a copy of data. The bucket is created implicitly.
func (d *DryRunStore) PutObject(_ context.Context, bucket, key, contentType string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.buckets[bucket] == nil {
		d.buckets[bucket] = make(map[string][]byte)
	}
	d.buckets[bucket][key] = append([]byte(nil), data...)
	d.log.Info("put object s3://"+bucket+"/"+key, "contentType", contentType, "bytes", len(data))
	return nil
}

// GetObject returns the stored object, or nil.
func (d *DryRunStore) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buckets[bucket][key], nil
}

// DeleteObject removes the object.
func (d *DryRunStore) DeleteObject(_ context.Context, bucket, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.buckets[bucket], key)
	d.log.Info("delete object s3://" + bucket + "/" + key)
	return nil
}
