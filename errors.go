package keel

import (
	"github.com/xraph/keel/internal/errors"
)

// Error is the structured error returned by the container.
type Error = errors.KeelError

// Re-export error constructors.
var (
	ErrNoSuchComponent       = errors.ErrNoSuchComponent
	ErrNoSuchComponentType   = errors.ErrNoSuchComponentType
	ErrAmbiguousComponent    = errors.ErrAmbiguousComponent
	ErrDuplicateRegistration = errors.ErrDuplicateRegistration
	ErrCyclicDependency      = errors.ErrCyclicDependency
	ErrMissingDependency     = errors.ErrMissingDependency
	ErrCreationFailure       = errors.ErrCreationFailure
	ErrContainerClosed       = errors.ErrContainerClosed
	ErrInvalidDescriptor     = errors.ErrInvalidDescriptor
	ErrTypeMismatch          = errors.ErrTypeMismatch
)

// Re-export sentinel errors for error comparison using errors.Is().
var (
	ErrNoSuchComponentSentinel       = errors.ErrNoSuchComponentSentinel
	ErrAmbiguousComponentSentinel    = errors.ErrAmbiguousComponentSentinel
	ErrDuplicateRegistrationSentinel = errors.ErrDuplicateRegistrationSentinel
	ErrCyclicDependencySentinel      = errors.ErrCyclicDependencySentinel
	ErrMissingDependencySentinel     = errors.ErrMissingDependencySentinel
	ErrCreationFailureSentinel       = errors.ErrCreationFailureSentinel
	ErrContainerClosedSentinel       = errors.ErrContainerClosedSentinel
	ErrInvalidDescriptorSentinel     = errors.ErrInvalidDescriptorSentinel
	ErrTypeMismatchSentinel          = errors.ErrTypeMismatchSentinel
	ErrConfigErrorSentinel           = errors.ErrConfigErrorSentinel
)

// Re-export error helpers.
var (
	IsNoSuchComponent    = errors.IsNoSuchComponent
	IsAmbiguousComponent = errors.IsAmbiguousComponent
	IsCyclicDependency   = errors.IsCyclicDependency
	IsMissingDependency  = errors.IsMissingDependency
	IsCreationFailure    = errors.IsCreationFailure
	IsContainerClosed    = errors.IsContainerClosed
	AmbiguousNames       = errors.AmbiguousNames
	ComponentOf          = errors.ComponentOf
)
