package di

import (
	"sync"
	"sync/atomic"
)

// earlyReference hands out a handle to a singleton that is still being
// built. The handle is computed once and shared by every caller.
type earlyReference struct {
	once    sync.Once
	raw     any
	wrap    func(raw any) any
	ref     any
	exposed atomic.Bool
}

func newEarlyReference(raw any, wrap func(raw any) any) *earlyReference {
	return &earlyReference{raw: raw, wrap: wrap}
}

func (e *earlyReference) get() any {
	e.once.Do(func() {
		e.exposed.Store(true)
		e.ref = e.wrap(e.raw)
		if e.ref == nil {
			e.ref = e.raw
		}
	})

	return e.ref
}

// wasExposed reports whether any caller has received the handle.
func (e *earlyReference) wasExposed() bool {
	return e.exposed.Load()
}
