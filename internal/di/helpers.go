package di

import (
	"fmt"
	"reflect"

	"github.com/xraph/keel/internal/errors"
)

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Resolve with type safety
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, errors.ErrTypeMismatch(name, TypeOf[T](), instance)
	}
	return typed, nil
}

// ResolveType returns the single component satisfying T.
func ResolveType[T any](c *Container) (T, error) {
	var zero T
	instance, err := c.GetByType(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, errors.ErrTypeMismatch(TypeOf[T]().String(), TypeOf[T](), instance)
	}
	return typed, nil
}

// MustResolve resolves or panics - use only during startup
func MustResolve[T any](c *Container, name string) T {
	instance, err := Resolve[T](c, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", name, err))
	}
	return instance
}

// Arg returns args[i] as T, or the zero value when it is absent.
func Arg[T any](args []any, i int) T {
	var zero T
	if i < 0 || i >= len(args) || args[i] == nil {
		return zero
	}
	v, _ := args[i].(T)
	return v
}

// Component is a convenience wrapper building a constructor descriptor for T.
func Component[T any](name string, ctor func(args []any) (T, error), opts ...Option) *Descriptor {
	return NewDescriptor(name, TypeOf[T](), append([]Option{
		WithConstructor(func(args []any) (any, error) {
			return ctor(args)
		}),
	}, opts...)...)
}

// Factory builds T by calling fn on the owner component O.
func Factory[O, T any](name, owner string, fn func(owner O, args []any) (T, error), opts ...Option) *Descriptor {
	return NewDescriptor(name, TypeOf[T](), append([]Option{
		WithFactoryMethod(owner, func(o any, args []any) (any, error) {
			typed, ok := o.(O)
			if !ok {
				return nil, errors.ErrTypeMismatch(owner, TypeOf[O](), o)
			}
			return fn(typed, args)
		}),
	}, opts...)...)
}

// Field builds an injection point setting a V on a C.
func Field[C, V any](dep Dependency, set func(c C, v V)) InjectionPoint {
	return InjectionPoint{
		Dependency: dep,
		Apply: func(instance, value any) error {
			target, ok := instance.(C)
			if !ok {
				return fmt.Errorf("instance %T is not %s", instance, TypeOf[C]())
			}
			v, ok := value.(V)
			if !ok {
				return fmt.Errorf("value %T is not %s", value, TypeOf[V]())
			}
			set(target, v)
			return nil
		},
	}
}
