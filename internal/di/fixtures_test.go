package di

import (
	"sync/atomic"
	"testing"

	"github.com/xraph/keel/internal/logger"
	"github.com/xraph/keel/internal/metrics"
)

type repo struct{ id int64 }

type service struct{ repo *repo }

type controller struct{ service *service }

type greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type frenchGreeter struct{}

func (frenchGreeter) Greet() string { return "bonjour" }

type nodeA struct{ b *nodeB }

type nodeB struct{ a *nodeA }

type selfRef struct{ self *selfRef }

// newTestContainer returns a container logging into memory; it is closed
// when the test ends.
func newTestContainer(t *testing.T, opts ...ContainerOption) (*Container, *logger.TestLogger) {
	t.Helper()

	log := logger.NewTestLogger()
	c := New(append([]ContainerOption{WithLogger(log), WithMetrics(metrics.NewNoop())}, opts...)...)
	t.Cleanup(func() { _ = c.Close() })

	return c, log
}

// counting returns a repo constructor and the number of times it ran.
func counting() (func([]any) (*repo, error), *atomic.Int64) {
	var n atomic.Int64
	return func([]any) (*repo, error) {
		return &repo{id: n.Add(1)}, nil
	}, &n
}

func repoDescriptor(ctor func([]any) (*repo, error), opts ...Option) *Descriptor {
	return Component[*repo]("repo", ctor, opts...)
}

func serviceDescriptor(opts ...Option) *Descriptor {
	return Component[*service]("service", func(args []any) (*service, error) {
		return &service{repo: Arg[*repo](args, 0)}, nil
	}, append([]Option{WithParams(ByName("repo"))}, opts...)...)
}

func controllerDescriptor(opts ...Option) *Descriptor {
	return Component[*controller]("controller", func(args []any) (*controller, error) {
		return &controller{service: Arg[*service](args, 0)}, nil
	}, append([]Option{Prototype(), WithParams(ByName("service"))}, opts...)...)
}
