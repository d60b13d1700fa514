package provisioning

import (
	"fmt"
	"strings"

	"github.com/imamik/loadfleet/internal/planner"
)

// ValidationError represents a pre-flight validation error or warning.
type ValidationError struct {
	Field    string // Plan or configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It runs before any resource is created.
type ValidationPhase struct {
	// RequireAssets checks that the test script is already in object storage.
	// Set it when the publish phase is skipped.
	RequireAssets bool
}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase(requireAssets bool) *ValidationPhase {
	return &ValidationPhase{RequireAssets: requireAssets}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	allErrors := validate(ctx)
	if vp.RequireAssets {
		allErrors = append(allErrors, validateAssets(ctx)...)
	}

	var errs []string
	for _, ve := range allErrors {
		if ve.IsError() {
			errs = append(errs, ve.Error())
			continue
		}
		ctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Phase:   "validation",
			Message: ve.Message,
			Fields:  map[string]string{"field": ve.Field},
		})
	}

	if len(errs) > 0 {
		return fmt.Errorf("pre-flight validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// validate runs all plan checks and returns any errors or warnings.
func validate(ctx *Context) []ValidationError {
	var errs []ValidationError
	plan := ctx.Plan

	if plan == nil {
		return []ValidationError{{Field: "plan", Message: "no plan to apply", Severity: "error"}}
	}

	if err := plan.Check(); err != nil {
		errs = append(errs, ValidationError{
			Field:    "plan",
			Message:  err.Error(),
			Severity: "error",
		})
	}

	peering := ctx.Infra != nil && ctx.Infra.SupportsPeering()

	// --- Deferred references ---

	for _, ref := range plan.Deferred {
		if !resolvableRef(ref, peering) {
			errs = append(errs, ValidationError{
				Field:    "deferred",
				Message:  fmt.Sprintf("reference %s cannot be resolved by this provider", ref),
				Severity: "error",
			})
		}
	}

	// --- Peering ---

	if plan.HasPeering() && !peering {
		errs = append(errs, ValidationError{
			Field:    "peering",
			Message:  fmt.Sprintf("plan has %d peering routes but the provider does not support network peering", len(plan.PeeringRoutes)),
			Severity: "error",
		})
	}

	// --- SSH keys ---

	if ctx.Config != nil && len(ctx.Config.SSHKeys) == 0 {
		errs = append(errs, ValidationError{
			Field:    "ssh_keys",
			Message:  "no SSH key configured; nodes will only be reachable with the root password mailed by the provider",
			Severity: "warning",
		})
	}

	return errs
}

// validateAssets checks that the published test script exists.
func validateAssets(ctx *Context) []ValidationError {
	if ctx.Assets == nil {
		return []ValidationError{{Field: "assets", Message: "no asset store configured", Severity: "error"}}
	}
	ref := ctx.Plan.Assets
	ok, err := ctx.Assets.ObjectExists(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return []ValidationError{{
			Field:    "assets",
			Message:  fmt.Sprintf("failed to check s3://%s/%s: %v", ref.Bucket, ref.Key, err),
			Severity: "error",
		}}
	}
	if !ok {
		return []ValidationError{{
			Field:    "assets",
			Message:  fmt.Sprintf("test script s3://%s/%s has not been published", ref.Bucket, ref.Key),
			Severity: "error",
		}}
	}
	return nil
}

// resolvableRef reports whether the executor can produce a value for ref.
func resolvableRef(ref string, peering bool) bool {
	switch ref {
	case planner.RefMasterPrivateIP, planner.RefMasterPublicIP:
		return true
	case planner.RefPeerCIDR, planner.RefPeerSubnets, planner.RefPeeringID:
		return peering
	default:
		return false
	}
}
