package di

import (
	"fmt"
	"slices"
	"time"

	"github.com/xraph/keel/internal/errors"
	"github.com/xraph/keel/internal/logger"
)

// Close destroys every cached singleton, dependents first, and releases all
// container state. Only the first call has an effect. Destroy failures are
// logged and never returned.
func (c *Container) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	start := time.Now()
	order := c.destructionOrder()

	destroyed, failures := 0, 0
	for _, name := range order {
		if name == SelfName {
			continue
		}

		instance, ok := c.singletons.Load(name)
		if !ok {
			continue
		}

		destroyed++
		d, _ := c.registry.lookup(name)
		if err := destroy(instance, d); err != nil {
			failures++
			c.metrics.DestroyFailed()
			c.log.Error("failed to destroy component",
				logger.Component(name),
				logger.Error(err),
			)
		}
	}

	c.singletons.Clear()
	c.early.Clear()
	c.locks.Clear()
	c.registry.clear()
	c.pipeline.clear()

	c.orderMu.Lock()
	c.created = nil
	c.orderMu.Unlock()
	c.cached.Store(0)
	c.metrics.SetCachedSingletons(0)

	c.log.Info("container closed",
		logger.Int("destroyed", destroyed),
		logger.Int("failures", failures),
		logger.Duration("elapsed", time.Since(start)),
	)

	return nil
}

// IsClosed reports whether Close has been called.
func (c *Container) IsClosed() bool {
	return c.closed.Load()
}

// destructionOrder lists cached singletons with dependents before their
// dependencies. A dependency cycle falls back to reverse creation order.
func (c *Container) destructionOrder() []string {
	created := c.creationOrder()

	graph := NewDependencyGraph()
	for _, name := range created {
		d, err := c.registry.lookup(name)
		if err != nil {
			graph.AddNode(name, nil)
			continue
		}
		graph.AddNode(name, c.dependenciesOf(d))
	}

	order, err := graph.TopologicalSort()
	if err != nil {
		c.log.Debug("destruction order falls back to reverse creation order", logger.Error(err))
		order = created
	}

	slices.Reverse(order)
	return order
}

// dependenciesOf collects the names d needs alive until it is destroyed.
func (c *Container) dependenciesOf(d *Descriptor) []string {
	deps := slices.Clone(d.DependsOn)
	deps = append(deps, d.namedDependencies()...)

	typed := make([]Dependency, 0, len(d.Params)+len(d.Injections))
	typed = append(typed, d.Params...)
	for _, ip := range d.Injections {
		typed = append(typed, ip.Dependency)
	}
	for _, dep := range typed {
		if dep.Name != "" || dep.Type == nil {
			continue
		}
		if name, err := c.nameForType(dep.Type); err == nil {
			deps = append(deps, name)
		}
	}

	return deps
}

// destroy runs the capability hook then the declared destroy method. Both
// run even if the first fails.
func destroy(instance any, d *Descriptor) error {
	var errs []error

	call := func(label string, fn func() error) {
		defer func() {
			if r := recover(); r != nil {
				errs = append(errs, fmt.Errorf("%s: panic: %v", label, r))
			}
		}()
		if e := fn(); e != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, e))
		}
	}

	if disposable, ok := instance.(Disposable); ok {
		call("dispose", disposable.Dispose)
	}

	if d != nil && d.DestroyMethod != nil {
		call("destroy method", func() error { return d.DestroyMethod(instance) })
	}

	return errors.Join(errs...)
}
