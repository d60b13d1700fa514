package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/loadfleet/internal/planner"
)

// FormatTable renders the plan for humans instead of encoding it.
const FormatTable = "table"

// Plan derives the cluster plan and prints or writes it.
// No provider is contacted.
func Plan(_ context.Context, configPath string, overrides Overrides, format, outPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	overrides.Apply(cfg)

	plan, err := planner.Plan(cfg)
	if err != nil {
		return err
	}

	data, err := renderPlan(plan, format)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := writeFile(outPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	fmt.Fprintf(stdout, "Plan for %s written to %s (%d nodes)\n", plan.ClusterName, outPath, len(plan.Nodes))
	return nil
}

func renderPlan(plan *planner.ClusterPlan, format string) ([]byte, error) {
	if format == FormatTable {
		return []byte(renderPlanTable(plan)), nil
	}
	f, err := planner.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return planner.Encode(plan, f)
}
