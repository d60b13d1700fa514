package testing

import (
	"context"
	"testing"
	"time"

	"github.com/imamik/loadfleet/internal/config"
	hcloud_internal "github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/planner"
	"github.com/imamik/loadfleet/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestTimeouts returns short timeouts suitable for mocks.
func TestTimeouts() *config.Timeouts {
	return &config.Timeouts{
		ServerCreate: 5 * time.Second,
		Action:       5 * time.Second,
		Publish:      5 * time.Second,
		Parallelism:  4,
	}
}

// NewPhaseContext plans cfg and returns a provisioning context around the
// plan with a RecordingObserver. It fails the test when cfg does not plan.
func NewPhaseContext(t *testing.T, cfg *config.Config, infra hcloud_internal.InfrastructureManager) (*provisioning.Context, *RecordingObserver) {
	t.Helper()
	plan, err := planner.Plan(cfg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	observer := NewRecordingObserver()
	ctx := provisioning.NewContext(TestContext(t), cfg, plan, infra, nil)
	ctx.Observer = observer
	ctx.Timeouts = TestTimeouts()
	return ctx, observer
}
