package di

import (
	"reflect"

	"github.com/xraph/keel/internal/config"
	"github.com/xraph/keel/internal/logger"
	"github.com/xraph/keel/internal/metrics"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a descriptor.
type Option func(*Descriptor)

// NewDescriptor builds a singleton descriptor and applies opts.
func NewDescriptor(name string, typ reflect.Type, opts ...Option) *Descriptor {
	d := &Descriptor{
		Name:  name,
		Type:  typ,
		Scope: ScopeSingleton,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// WithScope sets the scope.
func WithScope(scope Scope) Option {
	return func(d *Descriptor) {
		d.Scope = scope
	}
}

// Singleton marks the descriptor singleton scoped (the default).
func Singleton() Option {
	return WithScope(ScopeSingleton)
}

// Prototype marks the descriptor prototype scoped.
func Prototype() Option {
	return WithScope(ScopePrototype)
}

// Lazy excludes the singleton from eager warm-up.
func Lazy() Option {
	return func(d *Descriptor) {
		d.Lazy = true
	}
}

// WithConstructor sets the constructor strategy and its parameters.
func WithConstructor(fn ConstructorFunc, params ...Dependency) Option {
	return func(d *Descriptor) {
		d.Constructor = fn
		d.Params = append(d.Params, params...)
	}
}

// WithFactoryMethod builds the component by calling fn on the owner component.
func WithFactoryMethod(owner string, fn FactoryMethodFunc, params ...Dependency) Option {
	return func(d *Descriptor) {
		d.FactoryOwner = owner
		d.FactoryMethod = fn
		d.Params = append(d.Params, params...)
	}
}

// WithParams appends construction parameters.
func WithParams(params ...Dependency) Option {
	return func(d *Descriptor) {
		d.Params = append(d.Params, params...)
	}
}

// Inject adds a field injection point.
func Inject(dep Dependency, apply func(instance, value any) error) Option {
	return func(d *Descriptor) {
		d.Injections = append(d.Injections, InjectionPoint{Dependency: dep, Apply: apply})
	}
}

// InjectNamed adds a required field injection point resolved by name.
func InjectNamed(name string, apply func(instance, value any) error) Option {
	return Inject(ByName(name), apply)
}

// WithInjections appends prepared injection points, see Field.
func WithInjections(points ...InjectionPoint) Option {
	return func(d *Descriptor) {
		d.Injections = append(d.Injections, points...)
	}
}

// WithInitMethod sets the post-construct hook.
func WithInitMethod(fn func(instance any) error) Option {
	return func(d *Descriptor) {
		d.InitMethod = fn
	}
}

// WithDestroyMethod sets the destroy hook.
func WithDestroyMethod(fn func(instance any) error) Option {
	return func(d *Descriptor) {
		d.DestroyMethod = fn
	}
}

// WithHints declares behaviour hints for post-processors.
func WithHints(hints ...string) Option {
	return func(d *Descriptor) {
		d.Hints = append(d.Hints, hints...)
	}
}

// Provides indexes the component under additional types.
func Provides(types ...reflect.Type) Option {
	return func(d *Descriptor) {
		d.Provides = append(d.Provides, types...)
	}
}

// DependsOn declares components that must outlive this one.
func DependsOn(names ...string) Option {
	return func(d *Descriptor) {
		d.DependsOn = append(d.DependsOn, names...)
	}
}

// ByName is a required dependency on a named component.
func ByName(name string) Dependency {
	return Dependency{Name: name}
}

// ByType is a required dependency on the single component satisfying t.
func ByType(t reflect.Type) Dependency {
	return Dependency{Type: t}
}

// Optional marks dep as optional.
func Optional(dep Dependency) Dependency {
	dep.Optional = true
	return dep
}

// ContainerOption configures a Container.
type ContainerOption func(*containerOptions)

type containerOptions struct {
	config  *config.Config
	logger  logger.Logger
	metrics metrics.Metrics
	tracer  trace.Tracer
}

// WithConfig supplies the container configuration.
func WithConfig(cfg config.Config) ContainerOption {
	return func(o *containerOptions) {
		o.config = &cfg
	}
}

// WithLogger overrides the logger built from configuration.
func WithLogger(l logger.Logger) ContainerOption {
	return func(o *containerOptions) {
		o.logger = l
	}
}

// WithMetrics overrides the collectors built from configuration.
func WithMetrics(m metrics.Metrics) ContainerOption {
	return func(o *containerOptions) {
		o.metrics = m
	}
}

// WithTracer sets the tracer used for creation spans.
func WithTracer(t trace.Tracer) ContainerOption {
	return func(o *containerOptions) {
		o.tracer = t
	}
}
