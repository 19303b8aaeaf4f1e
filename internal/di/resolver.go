package di

import (
	"fmt"

	"github.com/xraph/keel/internal/errors"
)

// resolver turns descriptors into raw objects and satisfies their injection
// points through the owning container.
type resolver struct {
	c *Container
}

// instantiate runs the construction strategy of d.
func (r *resolver) instantiate(res *resolution, name string, d *Descriptor) (any, error) {
	var (
		instance any
		err      error
	)

	if d.FactoryMethod != nil {
		owner, ownerErr := r.c.get(res, d.FactoryOwner)
		if ownerErr != nil {
			return nil, fmt.Errorf("resolve factory owner '%s': %w", d.FactoryOwner, ownerErr)
		}

		args, argErr := r.resolveAll(res, name, d.Params)
		if argErr != nil {
			return nil, argErr
		}

		instance, err = protect(func() (any, error) { return d.FactoryMethod(owner, args) })
	} else {
		args, argErr := r.resolveAll(res, name, d.Params)
		if argErr != nil {
			return nil, argErr
		}

		instance, err = protect(func() (any, error) { return d.Constructor(args) })
	}

	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, errors.New("construction returned nil")
	}

	return instance, nil
}

func (r *resolver) resolveAll(res *resolution, name string, deps []Dependency) ([]any, error) {
	args := make([]any, len(deps))
	for i, dep := range deps {
		v, err := r.resolve(res, name, dep)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return args, nil
}

// resolve finds one collaborator: by name when registered, else by type.
// An unresolvable optional dependency yields nil.
func (r *resolver) resolve(res *resolution, component string, dep Dependency) (any, error) {
	if dep.Name != "" && r.c.registry.has(dep.Name) {
		return r.c.get(res, dep.Name)
	}

	if dep.Type != nil {
		target, err := r.c.nameForType(dep.Type)
		switch {
		case err == nil:
			return r.c.get(res, target)
		case !errors.IsNoSuchComponent(err):
			return nil, err
		}
	}

	if dep.Optional {
		return nil, nil
	}

	return nil, errors.ErrMissingDependency(component, dep.String())
}

// inject applies every injection point of d to instance.
func (r *resolver) inject(res *resolution, name string, d *Descriptor, instance any) error {
	for _, ip := range d.Injections {
		value, err := r.resolve(res, name, ip.Dependency)
		if err != nil {
			return err
		}
		if value == nil {
			continue
		}

		if _, err := protect(func() (any, error) { return nil, ip.Apply(instance, value) }); err != nil {
			return fmt.Errorf("inject '%s': %w", ip.Dependency, err)
		}
	}

	return nil
}

// protect converts a panic in fn into an error.
func protect(fn func() (any, error)) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return fn()
}
