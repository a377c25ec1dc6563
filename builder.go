package keel

import "sync"

// Builder compiles a registration plan into a sealed Container. Each Builder
// is single-shot: Build succeeds at most once, and no registration may be
// added after it has run.
type Builder struct {
	container *Container
	built     bool
	mu        sync.Mutex
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{container: newContainer()}
}

// Register adds one entry directly to the underlying container. This is the
// extension surface hosts use (via the bootstrapper's build hook) to install
// registrations the convention planner does not produce.
func (b *Builder) Register(entry RegistrationEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		return ErrBuilderSealed
	}

	return b.container.install(entry)
}

// Use adds an activation hook that observes every constructed instance.
func (b *Builder) Use(hook ActivationHook) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		return ErrBuilderSealed
	}

	b.container.use(hook)

	return nil
}

// Build applies the plan and seals the container. Entries are applied in
// role order (view-models, views, named singletons) with the auto-subscribe
// hook installed last so it observes every instance constructed afterwards.
// A second Build on the same builder fails with ErrBuilderSealed.
func (b *Builder) Build(plan []RegistrationEntry) (*Container, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		return nil, ErrBuilderSealed
	}

	autoSubscribe := false

	for _, role := range []Role{RoleViewModel, RoleView, RoleNamedSingleton} {
		for _, entry := range plan {
			if entry.Role != role {
				continue
			}

			if err := b.container.install(entry); err != nil {
				return nil, err
			}
		}
	}

	for _, entry := range plan {
		if entry.Role == roleAutoSubscribe {
			autoSubscribe = true
		}
	}

	if autoSubscribe {
		container := b.container
		container.use(autoSubscribeHook(func() (any, error) {
			return container.resolveKey(EventAggregatorKey)
		}))
	}

	b.built = true

	return b.container, nil
}
