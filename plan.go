package keel

import "reflect"

// Factory creates a service instance.
type Factory func() (any, error)

// Role identifies why an entry was planned.
type Role string

const (
	// RoleViewModel marks a registration produced by view-model classification.
	RoleViewModel Role = "view_model"

	// RoleView marks a registration produced by view classification.
	RoleView Role = "view"

	// RoleNamedSingleton marks a keyed shared-service registration.
	RoleNamedSingleton Role = "named_singleton"

	// roleAutoSubscribe marks the planner's instruction to install the
	// event-aggregator auto-subscribe activation hook. It carries no factory.
	roleAutoSubscribe Role = "auto_subscribe"
)

// Lifetime controls instance sharing for a registration.
type Lifetime string

const (
	// PerRequest produces a fresh instance on every resolution.
	PerRequest Lifetime = "per_request"

	// PerScope shares one instance for the lifetime of the composition root.
	PerScope Lifetime = "per_scope"
)

// Well-known keys for the two singletons every plan installs.
const (
	WindowManagerKey   = "windowManager"
	EventAggregatorKey = "eventAggregator"
)

// RegistrationEntry is one declarative instruction for the Builder. Entries
// are produced by the Planner and consumed exactly once.
type RegistrationEntry struct {
	// Service is the type the entry is resolvable by. Nil for purely keyed
	// entries and for marker entries.
	Service reflect.Type

	// Key is the lookup key for named registrations. Empty for by-type
	// registrations.
	Key string

	Role     Role
	Lifetime Lifetime
	Factory  Factory
}

// Planner turns a discovered type universe into a registration plan.
type Planner struct {
	Classifier Classifier
}

// Plan classifies the supplied descriptors and produces the full registration
// plan: one PerRequest entry per view-model, one PerRequest entry per view,
// the two PerScope named singletons (window manager, event aggregator), and,
// when opts.AutoSubscribeHandlers is set, a trailing marker entry instructing
// the builder to install the auto-subscribe activation hook.
//
// Both singleton factories are validated before any entry is produced; a
// missing factory fails with a configuration error naming the option.
//
// A descriptor matching both conventions is planned as a view-model only
// (view-model wins). Plan is a pure function of its inputs and may be called
// repeatedly.
func (p Planner) Plan(types []TypeDescriptor, opts Options) ([]RegistrationEntry, error) {
	if opts.WindowManagerFactory == nil {
		return nil, ErrMissingOption("WindowManagerFactory")
	}

	if opts.EventAggregatorFactory == nil {
		return nil, ErrMissingOption("EventAggregatorFactory")
	}

	classifier := p.Classifier
	if classifier.View == nil || classifier.ViewModel == nil {
		classifier = NewClassifier(opts)
	}

	var entries []RegistrationEntry

	planned := make(map[reflect.Type]bool, len(types))

	for _, d := range types {
		if !classifier.ViewModel(d) {
			continue
		}

		entries = append(entries, RegistrationEntry{
			Service:  d.Type,
			Role:     RoleViewModel,
			Lifetime: PerRequest,
			Factory:  d.New,
		})
		planned[d.Type] = true
	}

	for _, d := range types {
		if planned[d.Type] || !classifier.View(d) {
			continue
		}

		entries = append(entries, RegistrationEntry{
			Service:  d.Type,
			Role:     RoleView,
			Lifetime: PerRequest,
			Factory:  d.New,
		})
	}

	entries = append(entries,
		RegistrationEntry{
			Key:      WindowManagerKey,
			Role:     RoleNamedSingleton,
			Lifetime: PerScope,
			Factory:  opts.WindowManagerFactory,
		},
		RegistrationEntry{
			Key:      EventAggregatorKey,
			Role:     RoleNamedSingleton,
			Lifetime: PerScope,
			Factory:  opts.EventAggregatorFactory,
		},
	)

	if opts.AutoSubscribeHandlers {
		entries = append(entries, RegistrationEntry{Role: roleAutoSubscribe})
	}

	return entries, nil
}
