package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/loadfleet/internal/config"
	"github.com/imamik/loadfleet/internal/orchestration"
	"github.com/imamik/loadfleet/internal/platform/hcloud"
	"github.com/imamik/loadfleet/internal/platform/s3"
	"github.com/imamik/loadfleet/internal/provisioning"
	"github.com/imamik/loadfleet/internal/provisioning/compute"
	"github.com/imamik/loadfleet/internal/util/netutil"
)

// Reconciler interface for testing - matches orchestration.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context) (*orchestration.Result, error)
}

// ApplyOptions are the apply command flags.
type ApplyOptions struct {
	// DryRun logs every provider request instead of sending it.
	DryRun bool

	// SkipPublish assumes the test script was published with 'loadfleet publish'.
	SkipPublish bool

	// MetricsFile receives the run's metrics in the Prometheus text format.
	MetricsFile string

	// Wait blocks until the web UI of a public cluster accepts connections.
	Wait bool
}

// Factory function variables for apply - can be replaced in tests.
var (
	// newInfraClient creates a new infrastructure client.
	newInfraClient = func(token string) hcloud.InfrastructureManager {
		return hcloud.NewRealClient(token, hcloud.WithTimeouts(config.LoadTimeouts()))
	}

	// newReconciler creates a new reconciler.
	newReconciler = func(infra hcloud.InfrastructureManager, store provisioning.AssetStore, cfg *config.Config, opts orchestration.Options) Reconciler {
		return orchestration.NewReconciler(infra, store, cfg, opts)
	}

	// writeMetrics writes the gathered metrics to a file.
	writeMetrics = prometheus.WriteToTextfile

	// waitForPort blocks until a TCP port accepts connections.
	waitForPort = netutil.WaitForPort
)

// Apply provisions a load-testing cluster on Hetzner Cloud.
//
// This function orchestrates the complete provisioning workflow:
//  1. Loads the configuration and applies command-line overrides
//  2. Initializes the Hetzner Cloud and object storage clients (or dry-run fakes)
//  3. Publishes the test script unless skipped
//  4. Creates the network, firewalls, master and workers
//  5. Optionally waits for the web UI
//  6. Prints the entry point
//
// Metrics are written even when provisioning fails, so a failed run can be
// inspected.
func Apply(ctx context.Context, configPath string, overrides Overrides, opts ApplyOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	overrides.Apply(cfg)

	logger, err := provisioning.NewLogger("")
	if err != nil {
		return err
	}
	observer := provisioning.NewLogrObserver(logger)

	infra, store, err := initializeClients(ctx, cfg, opts.DryRun, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reconciler := newReconciler(infra, store, cfg, orchestration.Options{
		SkipPublish:    opts.SkipPublish,
		Observer:       observer,
		Metrics:        provisioning.NewMetrics(reg),
		AssetAccessKey: getenv(EnvS3AccessKey),
		AssetSecretKey: getenv(EnvS3SecretKey),
	})

	observer.Printf("Applying configuration for cluster: %s", cfg.ClusterName)
	result, err := reconciler.Reconcile(ctx)

	if opts.MetricsFile != "" {
		if werr := writeMetrics(opts.MetricsFile, reg); werr != nil {
			observer.Printf("Warning: failed to write metrics to %s: %v", opts.MetricsFile, werr)
		}
	}
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	if opts.Wait && !opts.DryRun {
		if err := waitForWebUI(ctx, observer, result, cfg); err != nil {
			return err
		}
	}

	printApplySuccess(result, cfg, opts.DryRun)
	return nil
}

// waitForWebUI waits for the master to serve the web UI. A headless cluster
// has no address reachable from here, so there is nothing to wait for.
func waitForWebUI(ctx context.Context, observer provisioning.Observer, result *orchestration.Result, cfg *config.Config) error {
	if cfg.IsPrivate() {
		observer.Printf("Headless cluster: not waiting, the run reports to %s on the master", compute.LogFile)
		return nil
	}
	observer.Printf("Waiting for the web UI on %s:%d...", result.EntryPoint, config.WebUIPort)
	if err := waitForPort(ctx, result.EntryPoint, config.WebUIPort, netutil.WebUIWaitTimeout); err != nil {
		return fmt.Errorf("web UI did not come up: %w", err)
	}
	return nil
}

// initializeClients creates the provider and object storage clients.
// The Hetzner Cloud token is read from HCLOUD_TOKEN.
func initializeClients(ctx context.Context, cfg *config.Config, dryRun bool, logger logr.Logger) (hcloud.InfrastructureManager, provisioning.AssetStore, error) {
	if dryRun {
		return hcloud.NewDryRunClient(logger), s3.NewDryRunStore(logger), nil
	}

	token := getenv(EnvHCloudToken)
	if token == "" {
		return nil, nil, fmt.Errorf("%s is not set", EnvHCloudToken)
	}

	store, err := newAssetStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create asset store client: %w", err)
	}
	return newInfraClient(token), store, nil
}

// printApplySuccess prints the entry point and how to reach it.
func printApplySuccess(result *orchestration.Result, cfg *config.Config, dryRun bool) {
	fmt.Fprintln(stdout)
	if dryRun {
		fmt.Fprintln(stdout, "Dry run complete; no resources were created.")
	} else {
		fmt.Fprintf(stdout, "Cluster %s is ready.\n", cfg.ClusterName)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  Master:  %s\n", result.Plan.EntryPoint.Node)
	fmt.Fprintf(stdout, "  Workers: %d\n", len(result.Plan.Workers()))
	if cfg.IsPrivate() {
		fmt.Fprintf(stdout, "  Entry point: %s (private, headless run)\n", result.EntryPoint)
		fmt.Fprintf(stdout, "  Output: %s on the master\n", compute.LogFile)
	} else {
		fmt.Fprintf(stdout, "  Web UI: http://%s\n", result.EntryPoint)
	}
}
