package keel

import "strings"

// ClassificationRule describes one naming convention. A descriptor matches
// when its simple name carries NameSuffix and, depending on EnforceNamespace,
// either its namespace carries NamespaceSuffix or its capability set includes
// RequiredCapability.
type ClassificationRule struct {
	// NameSuffix is required on the simple type name.
	NameSuffix string

	// NamespaceSuffix is required on the namespace when EnforceNamespace
	// is set. Empty means the namespace is never consulted.
	NamespaceSuffix string

	// EnforceNamespace switches the secondary check between the namespace
	// convention and the capability requirement.
	EnforceNamespace bool

	// RequiredCapability is checked when the namespace convention is not
	// enforced. Empty means no capability is required.
	RequiredCapability Capability
}

// Matches applies the rule to a descriptor.
//
// An empty or whitespace-only namespace never satisfies an enforced namespace
// convention.
func (r ClassificationRule) Matches(d TypeDescriptor) bool {
	if r.NameSuffix != "" && !strings.HasSuffix(d.Name, r.NameSuffix) {
		return false
	}

	if r.EnforceNamespace {
		if r.NamespaceSuffix == "" {
			return true
		}

		ns := d.Namespace
		if strings.TrimSpace(ns) == "" {
			return false
		}

		return strings.HasSuffix(ns, r.NamespaceSuffix)
	}

	if r.RequiredCapability == "" {
		return true
	}

	return d.HasCapability(r.RequiredCapability)
}

// IsView reports whether the descriptor names a view: the simple name ends
// with "View" and, when the namespace convention is enforced, the namespace
// is non-empty and ends with "Views".
func IsView(d TypeDescriptor, enforceNamespace bool) bool {
	rule := ClassificationRule{
		NameSuffix:       "View",
		NamespaceSuffix:  "Views",
		EnforceNamespace: enforceNamespace,
	}

	if !enforceNamespace {
		// Views carry no base capability requirement; the name alone decides.
		return strings.HasSuffix(d.Name, "View")
	}

	return rule.Matches(d)
}

// IsViewModel reports whether the descriptor names a view-model: the simple
// name ends with "ViewModel" and either the namespace ends with "ViewModels"
// (enforced convention) or the descriptor declares requiredCapability
// (relaxed convention).
func IsViewModel(d TypeDescriptor, enforceNamespace bool, requiredCapability Capability) bool {
	rule := ClassificationRule{
		NameSuffix:         "ViewModel",
		NamespaceSuffix:    "ViewModels",
		EnforceNamespace:   enforceNamespace,
		RequiredCapability: requiredCapability,
	}

	return rule.Matches(d)
}

// ClassifyFunc is a classification predicate over a single descriptor.
// Predicates must be pure and side-effect free.
type ClassifyFunc func(TypeDescriptor) bool

// Classifier bundles the two role predicates. Hosts may substitute stricter
// or looser predicates without touching the planner or builder.
type Classifier struct {
	View      ClassifyFunc
	ViewModel ClassifyFunc
}

// NewClassifier returns the convention classifier bound to the given options.
func NewClassifier(opts Options) Classifier {
	return Classifier{
		View: func(d TypeDescriptor) bool {
			return IsView(d, opts.EnforceNamespaceConvention)
		},
		ViewModel: func(d TypeDescriptor) bool {
			return IsViewModel(d, opts.EnforceNamespaceConvention, opts.ViewModelBaseCapability)
		},
	}
}
