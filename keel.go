// Package keel is a convention-based composition root for MVVM-style hosts.
//
// At startup a host supplies the universe of discovered types (as
// TypeDescriptor records), keel classifies them into view and view-model
// roles by naming convention, plans registrations with defined lifetimes,
// compiles them once into a sealed container, and exposes a Locator the host
// framework queries for the life of the process.
package keel

// New creates a bootstrapper with the default options and the given required
// factories. Shorthand for the common case; use NewBootstrapper directly for
// full control over options.
func New(windowManager, eventAggregator Factory) *Bootstrapper {
	opts := DefaultOptions()
	opts.WindowManagerFactory = windowManager
	opts.EventAggregatorFactory = eventAggregator

	return NewBootstrapper(opts)
}
