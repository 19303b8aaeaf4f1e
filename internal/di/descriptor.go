package di

import (
	"reflect"
	"slices"
	"strconv"

	"github.com/xraph/keel/internal/errors"
)

// Scope controls how many instances a descriptor yields.
type Scope int

const (
	// ScopeSingleton yields one cached instance per container.
	ScopeSingleton Scope = iota
	// ScopePrototype yields a fresh instance on every lookup.
	ScopePrototype
)

func (s Scope) String() string {
	switch s {
	case ScopePrototype:
		return "prototype"
	default:
		return "singleton"
	}
}

// Dependency identifies a collaborator. Name takes precedence; Type is used
// when Name is empty or not registered.
type Dependency struct {
	Name     string
	Type     reflect.Type
	Optional bool
}

func (d Dependency) String() string {
	if d.Name != "" {
		return d.Name
	}
	if d.Type != nil {
		return d.Type.String()
	}
	return "<unnamed>"
}

// InjectionPoint is a field set after construction.
type InjectionPoint struct {
	Dependency

	// Apply stores value into instance.
	Apply func(instance, value any) error
}

// ConstructorFunc builds an instance from resolved parameters.
type ConstructorFunc func(args []any) (any, error)

// FactoryMethodFunc builds an instance from an owner component and resolved parameters.
type FactoryMethodFunc func(owner any, args []any) (any, error)

// Descriptor is the immutable recipe for a component.
type Descriptor struct {
	Name     string
	Type     reflect.Type
	Provides []reflect.Type
	Scope    Scope
	Lazy     bool

	Constructor   ConstructorFunc
	FactoryOwner  string
	FactoryMethod FactoryMethodFunc
	Params        []Dependency

	Injections []InjectionPoint

	InitMethod    func(instance any) error
	DestroyMethod func(instance any) error

	Hints     []string
	DependsOn []string
}

// IsSingleton reports whether the descriptor is singleton scoped.
func (d *Descriptor) IsSingleton() bool {
	return d.Scope != ScopePrototype
}

// HasHint reports whether hint was declared.
func (d *Descriptor) HasHint(hint string) bool {
	return slices.Contains(d.Hints, hint)
}

// Validate rejects descriptors that can never be built.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return errors.ErrInvalidDescriptor(d.Name, "name is required")
	}

	if d.Type == nil {
		return errors.ErrInvalidDescriptor(d.Name, "type is required")
	}

	switch {
	case d.Constructor == nil && d.FactoryMethod == nil:
		return errors.ErrInvalidDescriptor(d.Name, "no construction strategy")
	case d.Constructor != nil && d.FactoryMethod != nil:
		return errors.ErrInvalidDescriptor(d.Name, "constructor and factory method are exclusive")
	case d.FactoryMethod != nil && d.FactoryOwner == "":
		return errors.ErrInvalidDescriptor(d.Name, "factory method requires an owner component")
	}

	for i, t := range d.Provides {
		if t == nil {
			return errors.ErrInvalidDescriptor(d.Name, "provided type "+strconv.Itoa(i)+" is nil")
		}
	}

	for i, p := range d.Params {
		if p.Name == "" && p.Type == nil {
			return errors.ErrInvalidDescriptor(d.Name, "parameter "+strconv.Itoa(i)+" has neither name nor type")
		}
	}

	for i, ip := range d.Injections {
		if ip.Apply == nil {
			return errors.ErrInvalidDescriptor(d.Name, "injection point "+strconv.Itoa(i)+" has no apply function")
		}
		if ip.Name == "" && ip.Type == nil {
			return errors.ErrInvalidDescriptor(d.Name, "injection point "+strconv.Itoa(i)+" has neither name nor type")
		}
	}

	return nil
}

// clone copies the slices so later mutation by the caller cannot leak in.
func (d *Descriptor) clone() *Descriptor {
	cp := *d
	cp.Provides = slices.Clone(d.Provides)
	cp.Params = slices.Clone(d.Params)
	cp.Injections = slices.Clone(d.Injections)
	cp.Hints = slices.Clone(d.Hints)
	cp.DependsOn = slices.Clone(d.DependsOn)

	return &cp
}

// namedDependencies lists every collaborator referenced by name.
func (d *Descriptor) namedDependencies() []string {
	var deps []string
	if d.FactoryOwner != "" {
		deps = append(deps, d.FactoryOwner)
	}
	for _, p := range d.Params {
		if p.Name != "" {
			deps = append(deps, p.Name)
		}
	}
	for _, ip := range d.Injections {
		if ip.Name != "" {
			deps = append(deps, ip.Name)
		}
	}

	return deps
}
