package keel

import (
	"reflect"

	"github.com/xraph/keel/internal/di"
)

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return di.TypeOf[T]()
}

// Resolve with type safety
func Resolve[T any](c *Container, name string) (T, error) {
	return di.Resolve[T](c, name)
}

// ResolveType returns the single component satisfying T.
func ResolveType[T any](c *Container) (T, error) {
	return di.ResolveType[T](c)
}

// MustResolve resolves or panics - use only during startup
func MustResolve[T any](c *Container, name string) T {
	return di.MustResolve[T](c, name)
}

// Arg returns args[i] as T, or the zero value when it is absent.
func Arg[T any](args []any, i int) T {
	return di.Arg[T](args, i)
}

// Component builds a constructor descriptor for T.
func Component[T any](name string, ctor func(args []any) (T, error), opts ...Option) *Descriptor {
	return di.Component(name, ctor, opts...)
}

// Factory builds T by calling fn on the owner component O.
func Factory[O, T any](name, owner string, fn func(owner O, args []any) (T, error), opts ...Option) *Descriptor {
	return di.Factory(name, owner, fn, opts...)
}

// InjectField builds an injection point setting a V on a C.
func InjectField[C, V any](dep Dependency, set func(c C, v V)) InjectionPoint {
	return di.Field(dep, set)
}
