package di

import (
	"context"
	"sort"
	"time"

	"github.com/xraph/keel/internal/errors"
	"github.com/xraph/keel/internal/logger"
)

// WarmupReport summarises one warm-up pass.
type WarmupReport struct {
	PostProcessors []string
	Created        []string
	Failed         map[string]error
	Duration       time.Duration
}

// Failures returns the joined creation failures, nil when everything was built.
func (r *WarmupReport) Failures() error {
	if len(r.Failed) == 0 {
		return nil
	}

	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, r.Failed[name])
	}
	return errors.Join(errs...)
}

// Warmup installs every registered post-processor, then builds every
// non-lazy singleton in registration order. Creation failures are logged
// and recorded; only a closed container or a cancelled context stops it.
func (c *Container) Warmup(ctx context.Context) (*WarmupReport, error) {
	if c.closed.Load() {
		return nil, errors.ErrContainerClosed("warmup")
	}

	start := time.Now()
	report := &WarmupReport{Failed: make(map[string]error)}

	if err := c.installPostProcessors(ctx, report); err != nil {
		return report, err
	}

	if c.cfg.Container.EagerInit {
		for _, name := range c.registry.names() {
			if err := ctx.Err(); err != nil {
				report.Duration = time.Since(start)
				return report, err
			}

			d, err := c.registry.lookup(name)
			if err != nil || !d.IsSingleton() || c.cfg.Container.IsLazy(name, d.Lazy) {
				continue
			}
			if _, cached := c.singletons.Load(name); cached {
				continue
			}

			if _, err := c.GetContext(ctx, name); err != nil {
				if errors.IsContainerClosed(err) {
					report.Duration = time.Since(start)
					return report, err
				}

				report.Failed[name] = err
				c.log.Error("eager component creation failed",
					logger.Component(name),
					logger.Error(err),
				)
				continue
			}
			report.Created = append(report.Created, name)
		}
	}

	report.Duration = time.Since(start)
	c.log.Info("container warmed up",
		logger.Int("post_processors", len(report.PostProcessors)),
		logger.Int("created", len(report.Created)),
		logger.Int("failed", len(report.Failed)),
		logger.Duration("elapsed", report.Duration),
	)

	return report, nil
}

// installPostProcessors builds every component satisfying PostProcessor and
// appends them to the pipeline, sorted by Ordered.
func (c *Container) installPostProcessors(ctx context.Context, report *WarmupReport) error {
	type candidate struct {
		name      string
		processor PostProcessor
		order     int
	}

	var found []candidate
	for _, name := range c.registry.scan(postProcessorType) {
		if c.pipeline.contains(name) {
			continue
		}

		instance, err := c.GetContext(ctx, name)
		if err != nil {
			if errors.IsContainerClosed(err) {
				return err
			}
			report.Failed[name] = err
			c.log.Error("post-processor creation failed", logger.Component(name), logger.Error(err))
			continue
		}

		pp, ok := instance.(PostProcessor)
		if !ok {
			c.log.Warn("component does not implement post-processor after creation", logger.Component(name))
			continue
		}

		order := 0
		if o, ok := instance.(Ordered); ok {
			order = o.Order()
		}
		found = append(found, candidate{name: name, processor: pp, order: order})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].order < found[j].order })
	for _, f := range found {
		c.pipeline.add(f.name, f.processor)
		report.PostProcessors = append(report.PostProcessors, f.name)
	}

	return nil
}
