package di

import (
	"reflect"
	"slices"
	"sync"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// typeIndex maps a type to the ordered, deduplicated names that satisfy it.
type typeIndex struct {
	mu      sync.RWMutex
	entries map[reflect.Type][]string
}

func newTypeIndex() *typeIndex {
	return &typeIndex{entries: make(map[reflect.Type][]string)}
}

func (ti *typeIndex) add(d *Descriptor) {
	types := indexedTypes(d)

	ti.mu.Lock()
	defer ti.mu.Unlock()

	for _, t := range types {
		if !slices.Contains(ti.entries[t], d.Name) {
			ti.entries[t] = append(ti.entries[t], d.Name)
		}
	}
}

// lookup returns a copy of the names indexed under t.
func (ti *typeIndex) lookup(t reflect.Type) []string {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	return slices.Clone(ti.entries[t])
}

func (ti *typeIndex) clear() {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	clear(ti.entries)
}

// indexedTypes returns the declared type, the provided types and the
// embedded-struct chain of the concrete type.
func indexedTypes(d *Descriptor) []reflect.Type {
	var out []reflect.Type
	seen := make(map[reflect.Type]bool)

	add := func(t reflect.Type) {
		if t == nil || t == anyType || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}

	add(d.Type)
	for _, t := range d.Provides {
		add(t)
	}
	embedded(d.Type, add, make(map[reflect.Type]bool))

	return out
}

// embedded walks anonymous fields recursively, offering each embedded type
// in both value and pointer form.
func embedded(t reflect.Type, add func(reflect.Type), visited map[reflect.Type]bool) {
	if t == nil {
		return
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || visited[t] {
		return
	}
	visited[t] = true

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		add(ft)

		switch {
		case ft.Kind() == reflect.Struct:
			add(reflect.PointerTo(ft))
		case ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.Struct:
			add(ft.Elem())
		}

		embedded(ft, add, visited)
	}
}

// satisfies reports whether a component declared as d can be used where t
// is expected.
func satisfies(d *Descriptor, t reflect.Type) bool {
	if d.Type == t || d.Type.AssignableTo(t) {
		return true
	}

	return slices.ContainsFunc(d.Provides, func(p reflect.Type) bool {
		return p == t || p.AssignableTo(t)
	})
}
