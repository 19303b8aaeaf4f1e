package keel

import (
	"github.com/xraph/keel/internal/di"
)

// Container builds, caches and destroys components.
type Container = di.Container

// Descriptor is the recipe for one named component.
type Descriptor = di.Descriptor

// Dependency identifies a collaborator by name or type.
type Dependency = di.Dependency

// InjectionPoint is a field set after construction.
type InjectionPoint = di.InjectionPoint

// Scope controls how many instances a descriptor yields.
type Scope = di.Scope

// Component lifecycle capabilities and extension points.
type (
	Initializer        = di.Initializer
	Disposable         = di.Disposable
	PostProcessor      = di.PostProcessor
	PostProcessorBase  = di.PostProcessorBase
	PostProcessorFuncs = di.PostProcessorFuncs
	HookFunc           = di.HookFunc
	Ordered            = di.Ordered
	WarmupReport       = di.WarmupReport
	ComponentInfo      = di.ComponentInfo
	Option             = di.Option
	ContainerOption    = di.ContainerOption
)

const (
	ScopeSingleton = di.ScopeSingleton
	ScopePrototype = di.ScopePrototype

	// SelfName is the name under which a container registers itself.
	SelfName = di.SelfName
)

// NewContainer creates a new container.
func NewContainer(opts ...ContainerOption) *Container {
	return di.New(opts...)
}

// Container options
var (
	WithConfig  = di.WithConfig
	WithLogger  = di.WithLogger
	WithMetrics = di.WithMetrics
	WithTracer  = di.WithTracer
)

// Descriptor options
var (
	NewDescriptor     = di.NewDescriptor
	WithScope         = di.WithScope
	Singleton         = di.Singleton
	Prototype         = di.Prototype
	Lazy              = di.Lazy
	WithConstructor   = di.WithConstructor
	WithFactoryMethod = di.WithFactoryMethod
	WithParams        = di.WithParams
	Inject            = di.Inject
	InjectNamed       = di.InjectNamed
	WithInjections    = di.WithInjections
	WithInitMethod    = di.WithInitMethod
	WithDestroyMethod = di.WithDestroyMethod
	WithHints         = di.WithHints
	Provides          = di.Provides
	DependsOn         = di.DependsOn
	ByName            = di.ByName
	ByType            = di.ByType
	Optional          = di.Optional
)
