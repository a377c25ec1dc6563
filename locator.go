package keel

import (
	"reflect"
	"sync"
)

// Locator is the service-location facade the host framework queries at
// runtime. It has two states: Unconfigured, in which every operation fails
// with ErrLocatorNotReady, and Ready, entered exactly once when the
// composition root has been built. All operations are safe for concurrent
// use once Ready.
type Locator struct {
	container *Container
	mu        sync.RWMutex
}

// NewLocator creates an Unconfigured locator. The bootstrapper transitions
// it to Ready after a successful build.
func NewLocator() *Locator {
	return &Locator{}
}

// ready installs the built container. The transition is one-way; subsequent
// calls are ignored.
func (l *Locator) ready(c *Container) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.container == nil {
		l.container = c
	}
}

// IsReady reports whether the composition root has been built.
func (l *Locator) IsReady() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.container != nil
}

func (l *Locator) current() (*Container, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.container == nil {
		return nil, ErrLocatorNotReady
	}

	return l.container, nil
}

// Resolve returns a single instance for the requested contract. When key is
// non-empty the lookup is by key alone; otherwise it is by service type.
// A contract with no matching registration fails with a resolution error
// whose message carries the identifying name (the key if present, else the
// type's display name).
func (l *Locator) Resolve(service reflect.Type, key string) (any, error) {
	c, err := l.current()
	if err != nil {
		return nil, err
	}

	if key != "" {
		return c.resolveKey(key)
	}

	if service == nil {
		return nil, ErrContractNotFound(displayName(service))
	}

	return c.resolveType(service)
}

// ResolveAll returns one instance per registration matching the service
// type, in registration order. Zero matches yields an empty result, never an
// error.
func (l *Locator) ResolveAll(service reflect.Type) ([]any, error) {
	c, err := l.current()
	if err != nil {
		return nil, err
	}

	if service == nil {
		return nil, nil
	}

	return c.resolveAll(service)
}

// InjectInto populates the settable dependency-shaped fields of an existing
// instance from the container, in place. An instance with no injectable
// fields is a no-op.
func (l *Locator) InjectInto(instance any) error {
	c, err := l.current()
	if err != nil {
		return err
	}

	return c.buildUp(instance)
}

// =============================================================================
// TYPED HELPERS
// =============================================================================

// Resolve resolves by type with type safety.
func Resolve[T any](l *Locator) (T, error) {
	var zero T

	instance, err := l.Resolve(reflect.TypeOf((*T)(nil)).Elem(), "")
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, NewResolutionError(reflect.TypeOf((*T)(nil)).Elem().String(), "type assertion", nil)
	}

	return typed, nil
}

// ResolveKeyed resolves by key with type safety.
func ResolveKeyed[T any](l *Locator, key string) (T, error) {
	var zero T

	instance, err := l.Resolve(nil, key)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, NewResolutionError(key, "type assertion", nil)
	}

	return typed, nil
}

// Must resolves by type or panics - use only during startup.
func Must[T any](l *Locator) T {
	instance, err := Resolve[T](l)
	if err != nil {
		panic(err)
	}

	return instance
}

// All resolves every registration assignable to T.
func All[T any](l *Locator) ([]T, error) {
	instances, err := l.ResolveAll(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}

	typed := make([]T, 0, len(instances))

	for _, instance := range instances {
		if v, ok := instance.(T); ok {
			typed = append(typed, v)
		}
	}

	return typed, nil
}
