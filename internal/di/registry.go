package di

import (
	"reflect"
	"slices"
	"sync"

	"github.com/xraph/keel/internal/errors"
	"github.com/xraph/keel/internal/logger"
)

// registry holds descriptors in registration order.
type registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	order       []string
	index       *typeIndex
	log         logger.Logger
}

func newRegistry(log logger.Logger) *registry {
	return &registry{
		descriptors: make(map[string]*Descriptor),
		index:       newTypeIndex(),
		log:         log,
	}
}

// register stores a copy of d. The first registration of a name wins; later
// ones are logged and ignored. It reports whether d was stored.
func (r *registry) register(d *Descriptor) (bool, error) {
	if d == nil {
		return false, errors.ErrInvalidDescriptor("", "descriptor is nil")
	}
	if err := d.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	if _, exists := r.descriptors[d.Name]; exists {
		r.mu.Unlock()
		r.log.Warn("component already registered, skipping",
			logger.Component(d.Name),
			logger.Type("type", d.Type),
		)

		return false, nil
	}

	stored := d.clone()
	r.descriptors[d.Name] = stored
	r.order = append(r.order, d.Name)
	r.mu.Unlock()

	r.index.add(stored)
	r.log.Debug("component registered",
		logger.Component(d.Name),
		logger.Type("type", d.Type),
		logger.Stringer("scope", d.Scope),
	)

	return true, nil
}

func (r *registry) lookup(name string) (*Descriptor, error) {
	r.mu.RLock()
	d, ok := r.descriptors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.ErrNoSuchComponent(name)
	}

	return d, nil
}

func (r *registry) has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.descriptors[name]
	return ok
}

// namesForType consults the type index and falls back to a full scan when
// the index knows nothing about t. Interfaces can be satisfied without being
// declared, so for them the index hits are merged with the scan.
func (r *registry) namesForType(t reflect.Type) []string {
	if t == nil {
		return nil
	}

	indexed := r.index.lookup(t)
	if len(indexed) > 0 && t.Kind() != reflect.Interface {
		return indexed
	}

	names := r.scan(t)
	for _, name := range indexed {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// scan returns, in registration order, every name whose descriptor satisfies t.
func (r *registry) scan(t reflect.Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, name := range r.order {
		if satisfies(r.descriptors[name], t) {
			names = append(names, name)
		}
	}

	return names
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

func (r *registry) clear() {
	r.mu.Lock()
	clear(r.descriptors)
	r.order = nil
	r.mu.Unlock()

	r.index.clear()
}
