package keel

import (
	"reflect"
	"sync"
)

// Shared fixtures modelled on a small MVVM host.

// LoginViewModel is an observable view-model under Sample.ViewModels.
type LoginViewModel struct {
	Username string
}

func (*LoginViewModel) Capabilities() []Capability {
	return []Capability{CapObservable}
}

// ShellViewModel additionally wants events from the aggregator.
type ShellViewModel struct{}

func (*ShellViewModel) Capabilities() []Capability {
	return []Capability{CapObservable, CapHandlesEvents}
}

// LoginView is a plain view under Sample.Views.
type LoginView struct{}

// plainService has no naming convention and no capabilities.
type plainService struct{}

type stubWindowManager struct {
	mu       sync.Mutex
	disposed int
}

func (w *stubWindowManager) Dispose() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disposed++

	return nil
}

func (w *stubWindowManager) disposeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.disposed
}

type stubAggregator struct {
	mu       sync.Mutex
	handlers []any
}

func (a *stubAggregator) Subscribe(handler any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers = append(a.handlers, handler)
}

func (a *stubAggregator) subscribed() []any {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]any(nil), a.handlers...)
}

// sampleTypes is the discovered universe used across tests.
func sampleTypes() []TypeDescriptor {
	return []TypeDescriptor{
		Describe[LoginViewModel]("Sample.ViewModels"),
		Describe[ShellViewModel]("Sample.ViewModels"),
		Describe[LoginView]("Sample.Views"),
		Describe[plainService]("Sample.Services"),
	}
}

// testOptions returns defaults with working factories installed.
func testOptions() (Options, *stubWindowManager, *stubAggregator) {
	wm := &stubWindowManager{}
	agg := &stubAggregator{}

	opts := DefaultOptions()
	opts.WindowManagerFactory = func() (any, error) { return wm, nil }
	opts.EventAggregatorFactory = func() (any, error) { return agg, nil }

	return opts, wm, agg
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil))
}
