package keel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapper_StartupScenario(t *testing.T) {
	opts, wm, _ := testOptions()

	types := []TypeDescriptor{
		Describe[LoginViewModel]("Sample.ViewModels"),
		Describe[LoginView]("Sample.Views"),
	}

	b := NewBootstrapper(opts)

	locator, err := b.Startup(types)
	require.NoError(t, err)
	require.True(t, locator.IsReady())

	// View-models are PerRequest: fresh instance each call.
	first, err := Resolve[*LoginViewModel](locator)
	require.NoError(t, err)

	second, err := Resolve[*LoginViewModel](locator)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	// The window manager is PerScope: same instance each call.
	got, err := ResolveKeyed[*stubWindowManager](locator, WindowManagerKey)
	require.NoError(t, err)
	assert.Same(t, wm, got)
}

func TestBootstrapper_StartupTwiceFails(t *testing.T) {
	opts, _, _ := testOptions()
	b := NewBootstrapper(opts)

	_, err := b.Startup(sampleTypes())
	require.NoError(t, err)

	_, err = b.Startup(sampleTypes())
	assert.ErrorIs(t, err, ErrBuilderSealed)
}

func TestBootstrapper_MissingFactoryHaltsStartup(t *testing.T) {
	opts, _, _ := testOptions()
	opts.WindowManagerFactory = nil

	b := NewBootstrapper(opts)

	_, err := b.Startup(sampleTypes())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WindowManagerFactory")

	// On failure the locator stays Unconfigured.
	assert.False(t, b.Locator().IsReady())
}

func TestBootstrapper_BeforeBuildMutatesOptions(t *testing.T) {
	opts, _, agg := testOptions()

	b := NewBootstrapper(opts).BeforeBuild(func(o *Options) {
		o.AutoSubscribeHandlers = true
	})

	locator, err := b.Startup(sampleTypes())
	require.NoError(t, err)

	_, err = Resolve[*ShellViewModel](locator)
	require.NoError(t, err)
	assert.Len(t, agg.subscribed(), 1)
}

func TestBootstrapper_OnBuildAddsRegistrations(t *testing.T) {
	opts, _, _ := testOptions()

	shared := &plainService{}

	b := NewBootstrapper(opts).OnBuild(func(builder *Builder) error {
		return builder.Register(RegistrationEntry{
			Service:  typeOf[plainService](),
			Role:     RoleNamedSingleton,
			Lifetime: PerScope,
			Factory:  func() (any, error) { return shared, nil },
		})
	})

	locator, err := b.Startup(sampleTypes())
	require.NoError(t, err)

	got, err := Resolve[*plainService](locator)
	require.NoError(t, err)
	assert.Same(t, shared, got)
}

func TestBootstrapper_OnBuildFailureHaltsStartup(t *testing.T) {
	opts, _, _ := testOptions()

	b := NewBootstrapper(opts).OnBuild(func(builder *Builder) error {
		return ErrMissingOption("custom")
	})

	_, err := b.Startup(sampleTypes())
	assert.Error(t, err)
	assert.False(t, b.Locator().IsReady())
}

func TestBootstrapper_OverrideClassifier(t *testing.T) {
	opts, _, _ := testOptions()

	everythingIsAViewModel := Classifier{
		View:      func(TypeDescriptor) bool { return false },
		ViewModel: func(TypeDescriptor) bool { return true },
	}

	b := NewBootstrapper(opts).OverrideClassifier(everythingIsAViewModel)

	locator, err := b.Startup(sampleTypes())
	require.NoError(t, err)

	// plainService fails the conventions but passes the custom predicate.
	_, err = Resolve[*plainService](locator)
	assert.NoError(t, err)
}

func TestBootstrapper_Shutdown(t *testing.T) {
	opts, wm, _ := testOptions()
	b := NewBootstrapper(opts)

	locator, err := b.Startup(sampleTypes())
	require.NoError(t, err)

	_, err = ResolveKeyed[*stubWindowManager](locator, WindowManagerKey)
	require.NoError(t, err)

	require.NoError(t, b.Shutdown(context.Background()))
	assert.Equal(t, 1, wm.disposeCount())

	require.NoError(t, b.Shutdown(context.Background()))
	assert.Equal(t, 1, wm.disposeCount())
}

func TestBootstrapper_ShutdownBeforeStartupIsNoop(t *testing.T) {
	opts, _, _ := testOptions()

	assert.NoError(t, NewBootstrapper(opts).Shutdown(context.Background()))
}

func TestNew_Shorthand(t *testing.T) {
	wm := &stubWindowManager{}
	agg := &stubAggregator{}

	b := New(
		func() (any, error) { return wm, nil },
		func() (any, error) { return agg, nil },
	)

	locator, err := b.Startup(sampleTypes())
	require.NoError(t, err)

	got, err := ResolveKeyed[*stubAggregator](locator, EventAggregatorKey)
	require.NoError(t, err)
	assert.Same(t, agg, got)
}
