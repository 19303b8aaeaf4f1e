package di

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/xraph/keel/internal/logger"
	"github.com/xraph/keel/internal/metrics"
)

// PostProcessor observes and may replace every component the container
// builds. A returned error, a panic or a nil result leaves the instance
// unchanged.
type PostProcessor interface {
	// BeforeInit runs after construction and before field injection.
	BeforeInit(instance any, name string, d *Descriptor) (any, error)

	// AfterInit runs after the init hooks. The first processor returning a
	// different object ends the chain.
	AfterInit(instance any, name string, d *Descriptor) (any, error)

	// EarlyReference produces the handle given to cycle peers of a singleton
	// still under construction.
	EarlyReference(instance any, name string, d *Descriptor) (any, error)
}

// Ordered lets a processor discovered from a descriptor choose its position.
// Lower values run first.
type Ordered interface {
	Order() int
}

// PostProcessorBase is a pass-through implementation to embed.
type PostProcessorBase struct{}

func (PostProcessorBase) BeforeInit(instance any, _ string, _ *Descriptor) (any, error) {
	return instance, nil
}

func (PostProcessorBase) AfterInit(instance any, _ string, _ *Descriptor) (any, error) {
	return instance, nil
}

func (PostProcessorBase) EarlyReference(instance any, _ string, _ *Descriptor) (any, error) {
	return instance, nil
}

// HookFunc is the signature shared by every post-processor hook.
type HookFunc func(instance any, name string, d *Descriptor) (any, error)

// PostProcessorFuncs adapts plain functions. Nil hooks pass through.
type PostProcessorFuncs struct {
	Before HookFunc
	After  HookFunc
	Early  HookFunc
}

func (f PostProcessorFuncs) BeforeInit(instance any, name string, d *Descriptor) (any, error) {
	if f.Before == nil {
		return instance, nil
	}
	return f.Before(instance, name, d)
}

func (f PostProcessorFuncs) AfterInit(instance any, name string, d *Descriptor) (any, error) {
	if f.After == nil {
		return instance, nil
	}
	return f.After(instance, name, d)
}

func (f PostProcessorFuncs) EarlyReference(instance any, name string, d *Descriptor) (any, error) {
	if f.Early == nil {
		return instance, nil
	}
	return f.Early(instance, name, d)
}

var postProcessorType = reflect.TypeOf((*PostProcessor)(nil)).Elem()

const (
	hookBeforeInit     = "before_init"
	hookAfterInit      = "after_init"
	hookEarlyReference = "early_reference"
)

type registeredProcessor struct {
	name      string
	processor PostProcessor
}

// pipeline is an append-only ordered list of processors.
type pipeline struct {
	mu         sync.RWMutex
	processors []registeredProcessor

	log     logger.Logger
	metrics metrics.Metrics
}

func newPipeline(log logger.Logger, m metrics.Metrics) *pipeline {
	return &pipeline{log: log, metrics: m}
}

func (p *pipeline) add(name string, pp PostProcessor) {
	if name == "" {
		name = fmt.Sprintf("%T", pp)
	}

	p.mu.Lock()
	p.processors = append(p.processors, registeredProcessor{name: name, processor: pp})
	p.mu.Unlock()

	p.log.Debug("post-processor added", logger.String("processor", name))
}

func (p *pipeline) contains(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, rp := range p.processors {
		if rp.name == name {
			return true
		}
	}
	return false
}

func (p *pipeline) snapshot() []registeredProcessor {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]registeredProcessor, len(p.processors))
	copy(out, p.processors)

	return out
}

func (p *pipeline) names() []string {
	snap := p.snapshot()
	out := make([]string, len(snap))
	for i, rp := range snap {
		out[i] = rp.name
	}
	return out
}

func (p *pipeline) clear() {
	p.mu.Lock()
	p.processors = nil
	p.mu.Unlock()
}

func (p *pipeline) beforeInit(instance any, name string, d *Descriptor) any {
	current := instance
	for _, rp := range p.snapshot() {
		current = p.invoke(rp, hookBeforeInit, current, name, d, rp.processor.BeforeInit)
	}
	return current
}

func (p *pipeline) afterInit(instance any, name string, d *Descriptor) any {
	for _, rp := range p.snapshot() {
		out := p.invoke(rp, hookAfterInit, instance, name, d, rp.processor.AfterInit)
		if !sameInstance(out, instance) {
			return out
		}
	}
	return instance
}

func (p *pipeline) earlyReference(instance any, name string, d *Descriptor) any {
	current := instance
	for _, rp := range p.snapshot() {
		current = p.invoke(rp, hookEarlyReference, current, name, d, rp.processor.EarlyReference)
	}
	return current
}

// invoke runs one hook and contains its failures.
func (p *pipeline) invoke(rp registeredProcessor, hook string, instance any, name string, d *Descriptor, fn HookFunc) (out any) {
	fail := func(err error) {
		p.metrics.PostProcessorFailed(hook)
		p.log.Warn("post-processor failed, keeping instance",
			logger.String("processor", rp.name),
			logger.String("hook", hook),
			logger.Component(name),
			logger.Error(err),
		)
		out = instance
	}

	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("panic: %v", r))
		}
	}()

	result, err := fn(instance, name, d)
	if err != nil {
		fail(err)
		return out
	}
	if result == nil {
		return instance
	}

	return result
}

// sameInstance compares two handles without panicking on uncomparable
// dynamic types.
func sameInstance(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	return va.Comparable() && va.Equal(vb)
}
