package planner

import "errors"

var (
	// ErrUnresolvedReference is returned when a deferred value has no
	// resolution.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrUnknownFormat is returned for an unsupported plan encoding.
	ErrUnknownFormat = errors.New("unknown plan format")

	// ErrInconsistentPlan is returned when a plan violates its own structure,
	// e.g. a decoded plan with two masters or an undeclared reference.
	ErrInconsistentPlan = errors.New("inconsistent plan")
)
