package labels

// Standard label keys for cluster resources.
const (
	// KeyCluster identifies which cluster a resource belongs to
	KeyCluster = "loadfleet.io/cluster"

	// KeyRole identifies the role of a node (master, worker)
	KeyRole = "loadfleet.io/role"

	// KeyOrdinal is the worker ordinal
	KeyOrdinal = "loadfleet.io/ordinal"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "loadfleet.io/managed-by"
)

// ManagedBy values
const (
	ManagedByLoadfleet = "loadfleet"
)

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the cluster name pre-set.
func NewLabelBuilder(clusterName string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyCluster:   clusterName,
			KeyManagedBy: ManagedByLoadfleet,
		},
	}
}

// WithRole adds a role label.
func (lb *LabelBuilder) WithRole(role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	return lb
}

// WithOrdinal adds the ordinal label. Label values must be strings.
func (lb *LabelBuilder) WithOrdinal(ordinal string) *LabelBuilder {
	lb.labels[KeyOrdinal] = ordinal
	return lb
}

// WithManagedBy sets who manages this resource.
func (lb *LabelBuilder) WithManagedBy(manager string) *LabelBuilder {
	lb.labels[KeyManagedBy] = manager
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// SelectorForCluster returns a label selector string for all resources in a cluster.
func SelectorForCluster(clusterName string) string {
	return KeyCluster + "=" + clusterName
}
