package keel

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"
)

// serviceKey uniquely identifies a registration by service type and optional
// key. Keyed registrations with a nil service type are looked up by key alone.
type serviceKey struct {
	typ reflect.Type
	key string
}

// String returns a human-readable representation of the key.
func (k serviceKey) String() string {
	typeName := "<nil>"
	if k.typ != nil {
		typeName = k.typ.String()
	}

	if k.key == "" {
		return typeName
	}

	if k.typ == nil {
		return k.key
	}

	return fmt.Sprintf("%s[key=%s]", typeName, k.key)
}

// registration holds one compiled registration.
type registration struct {
	service  reflect.Type
	key      string
	role     Role
	lifetime Lifetime
	factory  Factory
	instance any
	mu       sync.RWMutex
}

// contract returns the registration's display name for diagnostics.
func (r *registration) contract() string {
	return serviceKey{typ: r.service, key: r.key}.String()
}

// resolve produces an instance according to the registration's lifetime.
// PerScope instances are created once under double-checked locking and run
// the activation chain on first construction only; PerRequest instances are
// fresh and activated on every call.
func (r *registration) resolve(hooks *hookChain) (any, error) {
	if r.lifetime == PerScope {
		// Fast path: already created (read lock).
		r.mu.RLock()

		if r.instance != nil {
			instance := r.instance
			r.mu.RUnlock()

			return instance, nil
		}
		r.mu.RUnlock()

		// Slow path: create under write lock.
		r.mu.Lock()
		defer r.mu.Unlock()

		// Double-check after acquiring write lock.
		if r.instance != nil {
			return r.instance, nil
		}

		instance, err := r.factory()
		if err != nil {
			return nil, NewResolutionError(r.contract(), "construct", err)
		}

		if err := hooks.activate(r.contract(), instance); err != nil {
			return nil, err
		}

		r.instance = instance

		return r.instance, nil
	}

	instance, err := r.factory()
	if err != nil {
		return nil, NewResolutionError(r.contract(), "construct", err)
	}

	if err := hooks.activate(r.contract(), instance); err != nil {
		return nil, err
	}

	return instance, nil
}

// Container is the compiled composition root: a sealed, read-only registry
// mapping (service type, key) to a provider. It is built exactly once and is
// safe for concurrent reads afterwards. The container owns its PerScope
// instances and releases them at Close.
type Container struct {
	services map[serviceKey]*registration
	order    []serviceKey
	hooks    *hookChain
	closed   bool
	mu       sync.RWMutex
}

func newContainer() *Container {
	return &Container{
		services: make(map[serviceKey]*registration),
		hooks:    newHookChain(),
	}
}

// install adds a registration prior to sealing. The builder is the only
// caller; the container itself exposes no registration surface.
func (c *Container) install(entry RegistrationEntry) error {
	if entry.Factory == nil {
		return ErrNilFactory
	}

	key := serviceKey{typ: entry.Service, key: entry.Key}
	if _, exists := c.services[key]; exists {
		return ErrDuplicateRegistration(key.String())
	}

	c.services[key] = &registration{
		service:  entry.Service,
		key:      entry.Key,
		role:     entry.Role,
		lifetime: entry.Lifetime,
		factory:  entry.Factory,
	}
	c.order = append(c.order, key)

	return nil
}

// use appends an activation hook prior to sealing.
func (c *Container) use(hook ActivationHook) {
	c.hooks.add(hook)
}

// resolveType resolves the single registration for a service type.
func (c *Container) resolveType(service reflect.Type) (any, error) {
	c.mu.RLock()
	reg, exists := c.services[serviceKey{typ: service}]
	c.mu.RUnlock()

	if !exists {
		return nil, ErrContractNotFound(displayName(service))
	}

	return reg.resolve(c.hooks)
}

// resolveKey resolves a keyed registration. Lookup is by key alone; the
// service type a keyed entry may also carry is not consulted.
func (c *Container) resolveKey(key string) (any, error) {
	c.mu.RLock()

	var reg *registration

	for _, sk := range c.order {
		if sk.key == key {
			reg = c.services[sk]
			break
		}
	}
	c.mu.RUnlock()

	if reg == nil {
		return nil, ErrContractNotFound(key)
	}

	return reg.resolve(c.hooks)
}

// resolveAll resolves every registration whose service type is assignable to
// the requested type, in registration order. Zero matches yields a nil slice,
// not an error.
func (c *Container) resolveAll(service reflect.Type) ([]any, error) {
	c.mu.RLock()

	var matched []*registration

	for _, sk := range c.order {
		reg := c.services[sk]
		if reg.service == nil {
			continue
		}

		if reg.service == service || (service.Kind() == reflect.Interface && reg.service.Implements(service)) {
			matched = append(matched, reg)
		}
	}
	c.mu.RUnlock()

	var instances []any

	for _, reg := range matched {
		instance, err := reg.resolve(c.hooks)
		if err != nil {
			return nil, err
		}

		instances = append(instances, instance)
	}

	return instances, nil
}

// has reports whether a registration exists for the exact service key.
func (c *Container) has(key serviceKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.services[key]

	return exists
}

// Contracts returns the display names of all registrations in registration
// order. Diagnostic only.
func (c *Container) Contracts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.order))
	for _, sk := range c.order {
		names = append(names, sk.String())
	}

	return names
}

// Close releases all PerScope instances the container owns. Instances
// implementing Disposer are disposed; failures are collected, not
// short-circuited. Close is idempotent.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs error

	// Reverse registration order, singletons were installed last.
	for i := len(c.order) - 1; i >= 0; i-- {
		reg := c.services[c.order[i]]
		if reg.lifetime != PerScope {
			continue
		}

		reg.mu.Lock()
		instance := reg.instance
		reg.instance = nil
		reg.mu.Unlock()

		if d, ok := instance.(Disposer); ok {
			if err := d.Dispose(); err != nil {
				errs = multierr.Append(errs, NewResolutionError(reg.contract(), "dispose", err))
			}
		}
	}

	return errs
}

// displayName renders a service type for error messages.
func displayName(service reflect.Type) string {
	if service == nil {
		return "<nil>"
	}

	return service.String()
}
