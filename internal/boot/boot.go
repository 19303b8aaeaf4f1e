package boot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/xraph/keel/internal/di"
	"github.com/xraph/keel/internal/errors"
	"github.com/xraph/keel/internal/logger"
)

// Source supplies descriptors, typically generated or hand-written
// registration code.
type Source interface {
	Descriptors() ([]*di.Descriptor, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]*di.Descriptor, error)

func (f SourceFunc) Descriptors() ([]*di.Descriptor, error) {
	return f()
}

// Descriptors is a fixed Source.
type Descriptors []*di.Descriptor

func (d Descriptors) Descriptors() ([]*di.Descriptor, error) {
	return d, nil
}

// Runner is implemented by components that run once the container is warm.
type Runner interface {
	Run(ctx context.Context) error
}

var runnerType = reflect.TypeOf((*Runner)(nil)).Elem()

// Option configures Start.
type Option func(*options)

type options struct {
	sources []Source
	signals []os.Signal
	notify  bool
}

// WithSources adds descriptor sources.
func WithSources(sources ...Source) Option {
	return func(o *options) {
		o.sources = append(o.sources, sources...)
	}
}

// WithShutdownSignals closes the application when one of the signals is
// received. SIGINT and SIGTERM are used when none are given.
func WithShutdownSignals(signals ...os.Signal) Option {
	return func(o *options) {
		o.notify = true
		o.signals = signals
	}
}

// Application is a started container with its runners.
type Application struct {
	container *di.Container
	report    *di.WarmupReport
	log       logger.Logger

	group  *errgroup.Group
	cancel context.CancelFunc

	runners   []string
	closeOnce sync.Once
	done      chan struct{}
}

// Start registers every source, warms the container up and launches every
// Runner component in its own goroutine.
func Start(ctx context.Context, c *di.Container, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := c.Logger().Named("boot")

	for _, src := range o.sources {
		descriptors, err := src.Descriptors()
		if err != nil {
			return nil, fmt.Errorf("load descriptors: %w", err)
		}
		for _, d := range descriptors {
			if err := c.Register(d); err != nil {
				if errors.IsContainerClosed(err) {
					return nil, err
				}
				return nil, fmt.Errorf("register %s: %w", d.Name, err)
			}
		}
	}

	report, err := c.Warmup(ctx)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)

	app := &Application{
		container: c,
		report:    report,
		log:       log,
		group:     group,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	if o.notify {
		app.watchSignals(runCtx, o.signals)
	}

	for _, name := range c.NamesOfType(runnerType) {
		instance, err := c.GetContext(ctx, name)
		if err != nil {
			log.Error("runner unavailable", logger.Component(name), logger.Error(err))
			continue
		}

		runner, ok := instance.(Runner)
		if !ok {
			continue
		}

		app.runners = append(app.runners, name)
		group.Go(func() error {
			log.Debug("runner started", logger.Component(name))
			if err := runner.Run(groupCtx); err != nil {
				log.Error("runner failed", logger.Component(name), logger.Error(err))
				return fmt.Errorf("runner %s: %w", name, err)
			}
			log.Debug("runner finished", logger.Component(name))
			return nil
		})
	}

	log.Info("application started",
		logger.Strings("runners", app.runners),
		logger.Int("created", len(report.Created)),
		logger.Int("failed", len(report.Failed)),
	)

	return app, nil
}

// Container returns the underlying container.
func (a *Application) Container() *di.Container {
	return a.container
}

// Report returns the warm-up report.
func (a *Application) Report() *di.WarmupReport {
	return a.report
}

// Runners lists the runner components that were launched.
func (a *Application) Runners() []string {
	return a.runners
}

// Wait blocks until every runner returned and reports the first failure.
func (a *Application) Wait() error {
	return a.group.Wait()
}

// Done is closed once Close has run.
func (a *Application) Done() <-chan struct{} {
	return a.done
}

// Close cancels the runners and closes the container. It is safe to call
// more than once.
func (a *Application) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.cancel()
		err = a.container.Close()
		close(a.done)
	})
	return err
}

func (a *Application) watchSignals(ctx context.Context, signals []os.Signal) {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	go func() {
		defer signal.Stop(ch)

		select {
		case sig := <-ch:
			a.log.Info("shutdown signal received", logger.String("signal", sig.String()))
			_ = a.Close()
		case <-ctx.Done():
		}
	}()
}
