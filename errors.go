package keel

import (
	"fmt"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeConfiguration indicates a required bootstrap option is missing or invalid
	CodeConfiguration = "CONFIGURATION_ERROR"

	// CodeResolution indicates a requested contract has no matching registration
	CodeResolution = "RESOLUTION_ERROR"

	// CodeDuplicateRegistration indicates a contract is already registered
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"

	// CodeContainerSealed indicates registration or build was attempted on a sealed container
	CodeContainerSealed = "CONTAINER_SEALED"

	// CodeLocatorNotReady indicates the locator was used before the container was built
	CodeLocatorNotReady = "LOCATOR_NOT_READY"

	// CodeActivation indicates an activation hook rejected a constructed instance
	CodeActivation = "ACTIVATION_ERROR"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrBuilderSealed is returned when Build is called twice on the same Builder,
// or when a registration is added after the container was sealed.
var ErrBuilderSealed = errs.NewError(CodeContainerSealed, "container is sealed, no further registrations accepted", nil)

// ErrLocatorNotReady is returned when any locator operation runs before the
// composition root has been built.
var ErrLocatorNotReady = errs.NewError(CodeLocatorNotReady, "composition root has not been built", nil)

// ErrNilFactory is returned when a registration entry carries no factory.
var ErrNilFactory = errs.NewError(CodeConfiguration, "registration factory cannot be nil", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrMissingOption creates a configuration error naming the absent option.
// It is raised before any registration entry is produced.
func ErrMissingOption(option string) *errs.Error {
	return errs.NewError(
		CodeConfiguration,
		fmt.Sprintf("required option '%s' was not supplied", option),
		nil,
	).WithContext("option", option).(*errs.Error)
}

// ErrContractNotFound creates a resolution error for a contract with no
// matching registration. The identifying name is the key when the lookup was
// keyed, otherwise the service type's display name.
func ErrContractNotFound(contract string) *errs.Error {
	return errs.NewError(
		CodeResolution,
		fmt.Sprintf("could not locate any instances of contract %s", contract),
		nil,
	).WithContext("contract", contract).(*errs.Error)
}

// ErrDuplicateRegistration creates an error for a contract registered twice.
func ErrDuplicateRegistration(contract string) *errs.Error {
	return errs.NewError(
		CodeDuplicateRegistration,
		fmt.Sprintf("contract %s is already registered", contract),
		nil,
	).WithContext("contract", contract).(*errs.Error)
}

// NewResolutionError wraps a factory or hook failure that occurred while
// producing an instance of a contract.
func NewResolutionError(contract, operation string, cause error) *errs.Error {
	return errs.NewError(
		CodeResolution,
		fmt.Sprintf("contract %s failed during %s", contract, operation),
		cause,
	).WithContext("contract", contract).
		WithContext("operation", operation).(*errs.Error)
}

// NewActivationError wraps an activation hook failure for a contract.
func NewActivationError(contract string, cause error) *errs.Error {
	return errs.NewError(
		CodeActivation,
		fmt.Sprintf("activation hook failed for contract %s", contract),
		cause,
	).WithContext("contract", contract).(*errs.Error)
}
