package keel

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Options is the recognized configuration surface of the bootstrapper.
type Options struct {
	// EnforceNamespaceConvention requires views to live under a
	// "...Views" namespace and view-models under "...ViewModels".
	// When false, view-models are admitted by capability instead.
	EnforceNamespaceConvention bool

	// AutoSubscribeHandlers installs an activation hook subscribing every
	// constructed instance with the "handles events" capability to the
	// shared event aggregator.
	AutoSubscribeHandlers bool

	// ViewModelBaseCapability is the capability required of view-models
	// when the namespace convention is not enforced.
	ViewModelBaseCapability Capability

	// WindowManagerFactory produces the shared window manager singleton.
	// Required; the core supplies no default.
	WindowManagerFactory Factory

	// EventAggregatorFactory produces the shared event aggregator
	// singleton. Required; the core supplies no default.
	EventAggregatorFactory Factory

	// Logger receives bootstrap and trace output. Defaults to a no-op.
	Logger *zap.Logger

	// TraceResolutions logs every instance activation at debug level.
	TraceResolutions bool
}

// DefaultOptions returns the option defaults: namespace convention enforced,
// auto-subscribe off, observable base capability.
func DefaultOptions() Options {
	return Options{
		EnforceNamespaceConvention: true,
		ViewModelBaseCapability:    CapObservable,
	}
}

// Bootstrapper drives the single composition phase: defaults, override
// hooks, classification, planning, build, and the one-way transition of its
// Locator to Ready. It is not re-entrant; Startup runs at most once.
type Bootstrapper struct {
	opts        Options
	classifier  Classifier
	locator     *Locator
	container   *Container
	beforeBuild []func(*Options)
	onBuild     []func(*Builder) error
	started     bool
	log         *zap.Logger
	mu          sync.Mutex
}

// NewBootstrapper creates a bootstrapper with the given options. Start from
// DefaultOptions(), OptionsFromEnv, or OptionsFromFile and install the two
// required factories before calling Startup.
func NewBootstrapper(opts Options) *Bootstrapper {
	if opts.ViewModelBaseCapability == "" {
		opts.ViewModelBaseCapability = CapObservable
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Bootstrapper{
		opts:    opts,
		locator: NewLocator(),
		log:     log,
	}
}

// BeforeBuild registers a hook that may mutate the options before planning.
// Hooks run in registration order at the start of Startup.
func (b *Bootstrapper) BeforeBuild(fn func(*Options)) *Bootstrapper {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.beforeBuild = append(b.beforeBuild, fn)

	return b
}

// OnBuild registers a hook that may add arbitrary registrations to the
// underlying builder before it seals. Hooks run during Startup, ahead of the
// planned registrations.
func (b *Bootstrapper) OnBuild(fn func(*Builder) error) *Bootstrapper {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.onBuild = append(b.onBuild, fn)

	return b
}

// OverrideClassifier substitutes the classification predicates. Predicates
// left nil fall back to the convention classifier bound to the options.
func (b *Bootstrapper) OverrideClassifier(c Classifier) *Bootstrapper {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.classifier = c

	return b
}

// Startup executes the composition phase over the supplied type universe and
// returns the Ready locator. It runs at most once per bootstrapper; a second
// call fails with ErrBuilderSealed. On any failure the locator stays
// Unconfigured and the process should not proceed.
func (b *Bootstrapper) Startup(types []TypeDescriptor) (*Locator, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil, ErrBuilderSealed
	}

	for _, fn := range b.beforeBuild {
		fn(&b.opts)
	}

	planner := Planner{Classifier: b.classifier}

	plan, err := planner.Plan(types, b.opts)
	if err != nil {
		return nil, err
	}

	builder := NewBuilder()

	if b.opts.TraceResolutions {
		if err := builder.Use(TraceHook(b.log)); err != nil {
			return nil, err
		}
	}

	container, err := b.buildWithHooks(builder, plan)
	if err != nil {
		return nil, err
	}

	b.container = container
	b.started = true
	b.locator.ready(container)

	b.log.Info("composition root built",
		zap.Int("registrations", len(container.Contracts())),
		zap.Bool("auto_subscribe", b.opts.AutoSubscribeHandlers),
		zap.Bool("enforce_namespace", b.opts.EnforceNamespaceConvention))

	return b.locator, nil
}

func (b *Bootstrapper) buildWithHooks(builder *Builder, plan []RegistrationEntry) (*Container, error) {
	for _, fn := range b.onBuild {
		if err := fn(builder); err != nil {
			return nil, err
		}
	}

	return builder.Build(plan)
}

// Locator returns the facade. It is Unconfigured until Startup succeeds.
func (b *Bootstrapper) Locator() *Locator {
	return b.locator
}

// Shutdown releases the composition root: every PerScope singleton the
// container owns is disposed exactly once. Safe to call before Startup and
// safe to call repeatedly.
func (b *Bootstrapper) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	container := b.container
	b.mu.Unlock()

	if container == nil {
		return nil
	}

	// Teardown is in-memory only; ctx is accepted for symmetry with host
	// lifecycle signatures and honored if already cancelled.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := container.Close(); err != nil {
		b.log.Warn("composition root teardown reported errors", zap.Error(err))

		return err
	}

	b.log.Info("composition root closed")

	return nil
}
