package di

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xraph/keel/internal/config"
	"github.com/xraph/keel/internal/errors"
	"github.com/xraph/keel/internal/logger"
	"github.com/xraph/keel/internal/metrics"
)

// SelfName is the name under which a container registers itself.
const SelfName = "container"

// Initializer is implemented by components that finish their own setup
// once every injection point has been applied.
type Initializer interface {
	AfterInject() error
}

// Disposable is implemented by components that release resources on shutdown.
type Disposable interface {
	Dispose() error
}

// Container builds, caches and destroys components from descriptors.
type Container struct {
	id       string
	cfg      config.Config
	log      logger.Logger
	metrics  metrics.Metrics
	tracer   trace.Tracer
	registry *registry
	pipeline *pipeline
	resolver *resolver

	singletons sync.Map // name -> instance
	early      sync.Map // name -> *earlyReference
	locks      sync.Map // name -> *sync.Mutex

	cached  atomic.Int64
	orderMu sync.Mutex
	created []string

	closed atomic.Bool
}

// New creates a container and registers it under SelfName.
func New(opts ...ContainerOption) *Container {
	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.Default()
	if o.config != nil {
		cfg = *o.config
	}

	c := &Container{
		id:  uuid.NewString(),
		cfg: cfg,
	}

	log := o.logger
	if log == nil {
		log = logger.NewLogger(cfg.Logging)
	}
	c.log = log.Named("keel").With(
		logger.String("container_id", c.id),
		logger.String("container", cfg.Container.Name),
	)

	c.metrics = o.metrics
	if c.metrics == nil {
		c.metrics = metrics.New(cfg.Metrics)
	}

	c.tracer = o.tracer
	if c.tracer == nil {
		if cfg.Tracing.Enabled {
			c.tracer = otel.Tracer(cfg.Tracing.ServiceName)
		} else {
			c.tracer = noop.NewTracerProvider().Tracer("keel")
		}
	}

	c.registry = newRegistry(c.log)
	c.pipeline = newPipeline(c.log, c.metrics)
	c.resolver = &resolver{c: c}

	if err := c.RegisterInstance(SelfName, c); err != nil {
		c.log.Error("failed to register container", logger.Error(err))
	}

	return c
}

// ID identifies the container in logs.
func (c *Container) ID() string {
	return c.id
}

// Logger returns the container logger.
func (c *Container) Logger() logger.Logger {
	return c.log
}

// Metrics returns the container collectors.
func (c *Container) Metrics() metrics.Metrics {
	return c.metrics
}

// Config returns the configuration the container was built with.
func (c *Container) Config() config.Config {
	return c.cfg
}

// Register adds a descriptor. The first registration of a name wins.
func (c *Container) Register(d *Descriptor) error {
	if c.closed.Load() {
		return errors.ErrContainerClosed("register")
	}

	_, err := c.registry.register(d)
	return err
}

// RegisterInstance pre-seeds a singleton built outside the container.
func (c *Container) RegisterInstance(name string, instance any) error {
	if c.closed.Load() {
		return errors.ErrContainerClosed("register_instance")
	}
	if instance == nil {
		return errors.ErrInvalidDescriptor(name, "instance is nil")
	}
	if _, ok := c.singletons.Load(name); ok {
		return errors.ErrDuplicateRegistration(name)
	}

	d := NewDescriptor(name, reflect.TypeOf(instance), WithConstructor(func([]any) (any, error) {
		return instance, nil
	}))
	if _, err := c.registry.register(d); err != nil {
		return err
	}

	if _, loaded := c.singletons.LoadOrStore(name, instance); loaded {
		return errors.ErrDuplicateRegistration(name)
	}
	c.recordCreated(name)

	return nil
}

// AddPostProcessor appends p to the pipeline. It applies to components
// created afterwards.
func (c *Container) AddPostProcessor(p PostProcessor) {
	c.pipeline.add(fmt.Sprintf("%T", p), p)
}

// PostProcessors lists the installed processors in pipeline order.
func (c *Container) PostProcessors() []string {
	return c.pipeline.names()
}

// Has reports whether a descriptor is registered under name.
func (c *Container) Has(name string) bool {
	return c.registry.has(name)
}

// Names returns registered names in registration order.
func (c *Container) Names() []string {
	return c.registry.names()
}

// Descriptor returns the registered descriptor for name.
func (c *Container) Descriptor(name string) (*Descriptor, error) {
	return c.registry.lookup(name)
}

// Get returns the component registered under name.
func (c *Container) Get(name string) (any, error) {
	return c.get(newResolution(context.Background()), name)
}

// GetContext is Get with a parent context for creation spans.
func (c *Container) GetContext(ctx context.Context, name string) (any, error) {
	return c.get(newResolution(ctx), name)
}

// GetByType returns the single component satisfying t.
func (c *Container) GetByType(t reflect.Type) (any, error) {
	if c.closed.Load() {
		return nil, errors.ErrContainerClosed("get_by_type")
	}

	name, err := c.nameForType(t)
	if err != nil {
		return nil, err
	}

	return c.get(newResolution(context.Background()), name)
}

// NamesOfType lists, in registration order, every component satisfying t.
func (c *Container) NamesOfType(t reflect.Type) []string {
	if t == nil {
		return nil
	}

	return c.registry.scan(t)
}

// ComponentsOfType builds every component satisfying t.
func (c *Container) ComponentsOfType(t reflect.Type) (map[string]any, error) {
	if c.closed.Load() {
		return nil, errors.ErrContainerClosed("components_of_type")
	}

	out := make(map[string]any)
	for _, name := range c.NamesOfType(t) {
		instance, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		out[name] = instance
	}

	return out, nil
}

func (c *Container) nameForType(t reflect.Type) (string, error) {
	names := c.registry.namesForType(t)
	switch len(names) {
	case 0:
		return "", errors.ErrNoSuchComponentType(t)
	case 1:
		return names[0], nil
	default:
		slices.Sort(names)
		return "", errors.ErrAmbiguousComponent(t, names)
	}
}

func (c *Container) get(res *resolution, name string) (any, error) {
	if c.closed.Load() {
		return nil, errors.ErrContainerClosed("get")
	}

	d, err := c.registry.lookup(name)
	if err != nil {
		return nil, err
	}

	if !d.IsSingleton() {
		return c.createComponent(res, name, d)
	}

	if instance, ok := c.singletons.Load(name); ok {
		c.metrics.CacheHit()
		return instance, nil
	}

	if ref := c.earlyReference(name); ref != nil {
		return ref, nil
	}

	// Mutexes are not reentrant: a name already being built by this
	// resolution goes straight to cycle handling.
	if res.contains(name) {
		return c.createComponent(res, name, d)
	}

	lock := c.creationLock(name)
	lock.Lock()
	instance, err := c.createLocked(res, name, d)
	lock.Unlock()
	c.locks.CompareAndDelete(name, lock)

	return instance, err
}

func (c *Container) createLocked(res *resolution, name string, d *Descriptor) (any, error) {
	if instance, ok := c.singletons.Load(name); ok {
		c.metrics.CacheHit()
		return instance, nil
	}

	return c.createComponent(res, name, d)
}

func (c *Container) creationLock(name string) *sync.Mutex {
	lock, _ := c.locks.LoadOrStore(name, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (c *Container) earlyReference(name string) any {
	v, ok := c.early.Load(name)
	if !ok {
		return nil
	}

	return v.(*earlyReference).get()
}

// createComponent builds one instance of d. Every failure is reported as a
// creation failure of name and leaves nothing cached.
func (c *Container) createComponent(res *resolution, name string, d *Descriptor) (result any, err error) {
	if res.contains(name) {
		if d.IsSingleton() {
			if ref := c.earlyReference(name); ref != nil {
				return ref, nil
			}
		}
		return nil, errors.ErrCyclicDependency(res.cycle(name))
	}

	ctx, span := c.tracer.Start(res.ctx, "keel.create", trace.WithAttributes(
		attribute.String("keel.component", name),
		attribute.String("keel.scope", d.Scope.String()),
	))
	defer span.End()

	parent := res.ctx
	res.ctx = ctx
	res.push(name)
	start := time.Now()

	var cell *earlyReference

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}

		res.pop(name)
		res.ctx = parent

		if err == nil {
			return
		}

		if cell != nil {
			c.early.CompareAndDelete(name, cell)
		}

		err = creationFailure(name, err)
		result = nil

		span.RecordError(err)
		span.SetStatus(codes.Error, "creation failed")
		c.metrics.CreationFailed()
		c.log.Debug("component creation failed", logger.Component(name), logger.Error(err))
	}()

	raw, err := c.resolver.instantiate(res, name, d)
	if err != nil {
		return nil, err
	}

	if d.IsSingleton() {
		cell = newEarlyReference(raw, func(raw any) any {
			return c.pipeline.earlyReference(raw, name, d)
		})
		c.early.Store(name, cell)
	}

	instance := c.pipeline.beforeInit(raw, name, d)

	if err := c.resolver.inject(res, name, d, instance); err != nil {
		return nil, err
	}

	if err := initialize(instance, d); err != nil {
		return nil, err
	}

	final := c.pipeline.afterInit(instance, name, d)

	if cell != nil && cell.wasExposed() {
		ref := cell.get()
		switch {
		case !sameInstance(instance, raw):
			// peers hold a handle to the object that was replaced before injection
			c.log.Warn("early reference exposed for an instance replaced before injection",
				logger.Component(name),
				logger.Type("early", reflect.TypeOf(ref)),
				logger.Type("final", reflect.TypeOf(final)),
			)
		case sameInstance(final, raw):
			final = ref
		case !sameInstance(final, ref):
			c.log.Warn("early reference differs from final instance",
				logger.Component(name),
				logger.Type("early", reflect.TypeOf(ref)),
				logger.Type("final", reflect.TypeOf(final)),
			)
		}
	}

	if d.IsSingleton() {
		if existing, loaded := c.singletons.LoadOrStore(name, final); loaded {
			final = existing
		} else {
			c.recordCreated(name)
		}
		c.early.CompareAndDelete(name, cell)
		cell = nil
	}

	elapsed := time.Since(start)
	c.metrics.ComponentCreated(d.Scope.String(), elapsed)
	c.log.Debug("component created",
		logger.Component(name),
		logger.Stringer("scope", d.Scope),
		logger.Duration("elapsed", elapsed),
	)

	return final, nil
}

func (c *Container) recordCreated(name string) {
	c.orderMu.Lock()
	c.created = append(c.created, name)
	c.orderMu.Unlock()

	c.metrics.SetCachedSingletons(int(c.cached.Add(1)))
}

func (c *Container) creationOrder() []string {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()

	return slices.Clone(c.created)
}

// initialize runs the capability hook then the declared init method.
func initialize(instance any, d *Descriptor) error {
	if in, ok := instance.(Initializer); ok {
		if err := in.AfterInject(); err != nil {
			return fmt.Errorf("after inject: %w", err)
		}
	}

	if d.InitMethod != nil {
		if err := d.InitMethod(instance); err != nil {
			return fmt.Errorf("init method: %w", err)
		}
	}

	return nil
}

// creationFailure wraps err unless it already names this component.
func creationFailure(name string, err error) error {
	var ke *errors.KeelError
	if errors.As(err, &ke) && ke.Code == errors.CodeCreationFailure && errors.ComponentOf(err) == name {
		return err
	}

	return errors.ErrCreationFailure(name, err)
}
