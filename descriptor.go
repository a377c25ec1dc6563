package keel

import (
	"reflect"
)

// Capability is a named contract a type declares support for. Capabilities
// are queried instead of relying on concrete inheritance, which keeps the
// classification and activation machinery free of open-ended reflection.
type Capability string

const (
	// CapObservable marks a type that notifies observers when its state
	// changes. It is the default base capability required of view-models
	// when the namespace convention is not enforced.
	CapObservable Capability = "observable/notifies-on-change"

	// CapHandlesEvents marks a type whose instances want to receive events
	// from the shared event aggregator.
	CapHandlesEvents Capability = "handles events"
)

// CapabilitySet is implemented by types that declare their capabilities at
// runtime. Describe consults it when building a TypeDescriptor, and the
// auto-subscribe activation hook consults it on freshly constructed instances.
type CapabilitySet interface {
	Capabilities() []Capability
}

// Disposer is implemented by singleton instances that hold releasable
// resources. The container calls Dispose exactly once at teardown.
type Disposer interface {
	Dispose() error
}

// TypeDescriptor describes one discovered type. Descriptors are produced once
// at scan time and never mutated afterwards.
type TypeDescriptor struct {
	// Name is the simple (unqualified) type name, e.g. "LoginViewModel".
	Name string

	// Namespace is the logical namespace the type was discovered under,
	// e.g. "Sample.ViewModels". May be empty.
	Namespace string

	// Assembly identifies the scanned unit the type came from.
	Assembly string

	// Type is the service type instances are registered under.
	Type reflect.Type

	// Capabilities is the set of contracts the type declares support for.
	Capabilities []Capability

	// New constructs a fresh instance of the type.
	New func() (any, error)
}

// FullName returns the namespace-qualified display name.
func (d TypeDescriptor) FullName() string {
	if d.Namespace == "" {
		return d.Name
	}

	return d.Namespace + "." + d.Name
}

// HasCapability reports whether the descriptor declares the given capability.
func (d TypeDescriptor) HasCapability(c Capability) bool {
	for _, have := range d.Capabilities {
		if have == c {
			return true
		}
	}

	return false
}

// DescribeOption customizes a descriptor produced by Describe.
type DescribeOption func(*TypeDescriptor)

// WithCapabilities adds declared capabilities to the descriptor.
func WithCapabilities(caps ...Capability) DescribeOption {
	return func(d *TypeDescriptor) {
		d.Capabilities = append(d.Capabilities, caps...)
	}
}

// WithAssembly records the scanned unit the type came from.
func WithAssembly(assembly string) DescribeOption {
	return func(d *TypeDescriptor) {
		d.Assembly = assembly
	}
}

// WithFactory overrides the default zero-value constructor.
func WithFactory(factory Factory) DescribeOption {
	return func(d *TypeDescriptor) {
		d.New = factory
	}
}

// Describe builds a TypeDescriptor for the concrete struct type T discovered
// under the given namespace. Instances are produced as *T. If *T implements
// CapabilitySet the declared capabilities are captured on the descriptor.
//
// Example:
//
//	d := keel.Describe[LoginViewModel]("Sample.ViewModels")
func Describe[T any](namespace string, opts ...DescribeOption) TypeDescriptor {
	elem := reflect.TypeOf((*T)(nil)).Elem()

	d := TypeDescriptor{
		Name:      elem.Name(),
		Namespace: namespace,
		Type:      reflect.PointerTo(elem),
		New: func() (any, error) {
			return new(T), nil
		},
	}

	if cs, ok := any(new(T)).(CapabilitySet); ok {
		d.Capabilities = append(d.Capabilities, cs.Capabilities()...)
	}

	for _, opt := range opts {
		opt(&d)
	}

	return d
}

// InstanceCapabilities returns the capabilities a live instance declares,
// or nil if it does not implement CapabilitySet.
func InstanceCapabilities(v any) []Capability {
	if cs, ok := v.(CapabilitySet); ok {
		return cs.Capabilities()
	}

	return nil
}

// InstanceHasCapability reports whether a live instance declares the given
// capability.
func InstanceHasCapability(v any, c Capability) bool {
	for _, have := range InstanceCapabilities(v) {
		if have == c {
			return true
		}
	}

	return false
}
