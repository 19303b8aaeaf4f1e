package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// Error code constants for structured errors
const (
	CodeNoSuchComponent       = "NO_SUCH_COMPONENT"
	CodeAmbiguousComponent    = "AMBIGUOUS_COMPONENT"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeCyclicDependency      = "CYCLIC_DEPENDENCY"
	CodeMissingDependency     = "MISSING_DEPENDENCY"
	CodeCreationFailure       = "CREATION_FAILURE"
	CodeContainerClosed       = "CONTAINER_CLOSED"
	CodeInvalidDescriptor     = "INVALID_DESCRIPTOR"
	CodeTypeMismatch          = "TYPE_MISMATCH"
	CodeConfigError           = "CONFIG_ERROR"
)

// Context keys attached to structured errors.
const (
	ContextComponent = "component"
	ContextType      = "type"
	ContextNames     = "names"
	ContextChain     = "chain"
	ContextOperation = "operation"
)

// =============================================================================
// KEEL ERROR (STRUCTURED ERROR)
// =============================================================================

// KeelError represents a structured error with context
type KeelError struct {
	Code      string
	Message   string
	Cause     error
	Timestamp time.Time
	Context   map[string]any
}

func (e *KeelError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *KeelError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is interface for KeelError.
// Compares by error code, allowing matching against sentinel errors.
func (e *KeelError) Is(target error) bool {
	t, ok := target.(*KeelError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext adds context to the error
func (e *KeelError) WithContext(key string, value any) *KeelError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newError(code, message string, cause error) *KeelError {
	return &KeelError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
}

// ErrNoSuchComponent reports a name lookup that matched nothing.
func ErrNoSuchComponent(name string) *KeelError {
	return newError(CodeNoSuchComponent, "no component named '"+name+"'", nil).
		WithContext(ContextComponent, name)
}

// ErrNoSuchComponentType reports a type lookup that matched nothing.
func ErrNoSuchComponentType(t reflect.Type) *KeelError {
	return newError(CodeNoSuchComponent, "no component of type '"+typeString(t)+"'", nil).
		WithContext(ContextType, typeString(t))
}

// ErrAmbiguousComponent reports a type lookup that matched more than one name.
func ErrAmbiguousComponent(t reflect.Type, names []string) *KeelError {
	named := append([]string(nil), names...)
	return newError(CodeAmbiguousComponent,
		fmt.Sprintf("type '%s' is satisfied by %d components: %s", typeString(t), len(named), strings.Join(named, ", ")), nil).
		WithContext(ContextType, typeString(t)).
		WithContext(ContextNames, named)
}

// ErrDuplicateRegistration reports a pre-seeded instance colliding with a cached singleton.
func ErrDuplicateRegistration(name string) *KeelError {
	return newError(CodeDuplicateRegistration, "singleton '"+name+"' is already registered", nil).
		WithContext(ContextComponent, name)
}

// ErrCyclicDependency reports a cycle that cannot be broken.
func ErrCyclicDependency(chain []string) *KeelError {
	path := append([]string(nil), chain...)
	return newError(CodeCyclicDependency, "cyclic dependency detected: "+strings.Join(path, " -> "), nil).
		WithContext(ContextChain, path)
}

// ErrMissingDependency reports a required injection point that resolved to nothing.
func ErrMissingDependency(component, dependency string) *KeelError {
	return newError(CodeMissingDependency,
		"component '"+component+"' requires '"+dependency+"' which cannot be resolved", nil).
		WithContext(ContextComponent, component)
}

// ErrCreationFailure wraps any failure raised while building a component.
func ErrCreationFailure(name string, cause error) *KeelError {
	return newError(CodeCreationFailure, "failed to create component '"+name+"'", cause).
		WithContext(ContextComponent, name)
}

// ErrContainerClosed reports an operation attempted after shutdown began.
func ErrContainerClosed(operation string) *KeelError {
	return newError(CodeContainerClosed, "container is closed", nil).
		WithContext(ContextOperation, operation)
}

// ErrInvalidDescriptor reports a descriptor rejected at registration.
func ErrInvalidDescriptor(name, reason string) *KeelError {
	return newError(CodeInvalidDescriptor, "invalid descriptor '"+name+"': "+reason, nil).
		WithContext(ContextComponent, name)
}

// ErrTypeMismatch reports a resolved component that does not satisfy the requested type.
func ErrTypeMismatch(name string, want reflect.Type, got any) *KeelError {
	return newError(CodeTypeMismatch,
		fmt.Sprintf("component '%s' is %T, not %s", name, got, typeString(want)), nil).
		WithContext(ContextComponent, name)
}

// ErrConfigError creates a config error
func ErrConfigError(message string, cause error) *KeelError {
	return newError(CodeConfigError, message, cause)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// =============================================================================
// STANDARD ERRORS PACKAGE INTEGRATION
// =============================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// =============================================================================
// SENTINEL ERRORS (for use with Is)
// =============================================================================

var (
	ErrNoSuchComponentSentinel       = &KeelError{Code: CodeNoSuchComponent}
	ErrAmbiguousComponentSentinel    = &KeelError{Code: CodeAmbiguousComponent}
	ErrDuplicateRegistrationSentinel = &KeelError{Code: CodeDuplicateRegistration}
	ErrCyclicDependencySentinel      = &KeelError{Code: CodeCyclicDependency}
	ErrMissingDependencySentinel     = &KeelError{Code: CodeMissingDependency}
	ErrCreationFailureSentinel       = &KeelError{Code: CodeCreationFailure}
	ErrContainerClosedSentinel       = &KeelError{Code: CodeContainerClosed}
	ErrInvalidDescriptorSentinel     = &KeelError{Code: CodeInvalidDescriptor}
	ErrTypeMismatchSentinel          = &KeelError{Code: CodeTypeMismatch}
	ErrConfigErrorSentinel           = &KeelError{Code: CodeConfigError}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNoSuchComponent checks if the error is a no such component error.
func IsNoSuchComponent(err error) bool {
	return Is(err, ErrNoSuchComponentSentinel)
}

// IsAmbiguousComponent checks if the error is an ambiguous component error.
func IsAmbiguousComponent(err error) bool {
	return Is(err, ErrAmbiguousComponentSentinel)
}

// IsCyclicDependency checks if the error is a cyclic dependency error.
func IsCyclicDependency(err error) bool {
	return Is(err, ErrCyclicDependencySentinel)
}

// IsMissingDependency checks if the error is a missing required dependency error.
func IsMissingDependency(err error) bool {
	return Is(err, ErrMissingDependencySentinel)
}

// IsCreationFailure checks if the error is a creation failure.
func IsCreationFailure(err error) bool {
	return Is(err, ErrCreationFailureSentinel)
}

// IsContainerClosed checks if the error is a container closed error.
func IsContainerClosed(err error) bool {
	return Is(err, ErrContainerClosedSentinel)
}

// AmbiguousNames returns the candidate names carried by an ambiguous component error.
func AmbiguousNames(err error) []string {
	for err != nil {
		var target *KeelError
		if !errors.As(err, &target) {
			return nil
		}
		if target.Code == CodeAmbiguousComponent {
			names, _ := target.Context[ContextNames].([]string)
			return names
		}
		err = target.Cause
	}
	return nil
}

// ComponentOf returns the component name carried by the outermost structured error.
func ComponentOf(err error) string {
	var target *KeelError
	if errors.As(err, &target) {
		name, _ := target.Context[ContextComponent].(string)
		return name
	}
	return ""
}
