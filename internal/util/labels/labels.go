package labels

// Label keys set on every resource fipctl creates.
const (
	// KeyManagedBy identifies the tool that created a resource.
	KeyManagedBy = "managed-by"
)

// ManagedByFipctl is the KeyManagedBy value of fipctl-created resources.
const ManagedByFipctl = "fipctl"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a builder with the managed-by label pre-set.
func NewLabelBuilder() *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyManagedBy: ManagedByFipctl,
		},
	}
}

// WithPool sets the pool label. The key is configurable, so callers pass it.
func (lb *LabelBuilder) WithPool(key, pool string) *LabelBuilder {
	lb.labels[key] = pool
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
