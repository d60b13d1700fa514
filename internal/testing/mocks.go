package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/loadfleet/internal/provisioning"

	"github.com/stretchr/testify/mock"
)

// MockAssetStore is a mock implementation of provisioning.AssetStore.
type MockAssetStore struct {
	mock.Mock
}

var _ provisioning.AssetStore = (*MockAssetStore)(nil)

// BucketExists mocks the bucket lookup.
func (m *MockAssetStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

// CreateBucket mocks bucket creation.
func (m *MockAssetStore) CreateBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

// ObjectExists mocks the object lookup.
func (m *MockAssetStore) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	args := m.Called(ctx, bucket, key)
	return args.Bool(0), args.Error(1)
}

// PutObject mocks the upload.
func (m *MockAssetStore) PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error {
	args := m.Called(ctx, bucket, key, contentType, data)
	return args.Error(0)
}

// DeleteObject mocks object removal.
func (m *MockAssetStore) DeleteObject(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

// RecordingObserver is a provisioning.Observer that keeps everything it is
// given. It is safe for concurrent use.
type RecordingObserver struct {
	mu       sync.Mutex
	messages []string
	events   []provisioning.Event
}

var _ provisioning.Observer = (*RecordingObserver)(nil)

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// Printf records the formatted message.
func (o *RecordingObserver) Printf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintf(format, v...))
}

// Event records the event.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// Progress records a progress event.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	o.Event(provisioning.Event{
		Type:    provisioning.EventProgress,
		Phase:   phase,
		Message: fmt.Sprintf("%d/%d", current, total),
	})
}

// WithFields returns the same observer; fields are not recorded.
func (o *RecordingObserver) WithFields(map[string]string) provisioning.Observer {
	return o
}

// Messages returns a copy of the recorded messages.
func (o *RecordingObserver) Messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.messages...)
}

// Events returns a copy of the recorded events.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]provisioning.Event(nil), o.events...)
}

// EventsOfType returns the recorded events of type t.
func (o *RecordingObserver) EventsOfType(t provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range o.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
