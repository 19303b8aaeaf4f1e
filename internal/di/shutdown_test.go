package di

import (
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/keel/internal/errors"
	"github.com/xraph/keel/internal/metrics"
)

type disposableConn struct {
	mu    *sync.Mutex
	name  string
	trail *[]string
}

func (d *disposableConn) Dispose() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	*d.trail = append(*d.trail, "dispose:"+d.name)
	return nil
}

func TestClose_DestroyFailuresDoNotStopShutdown(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, log := newTestContainer(t, WithMetrics(metrics.NewWithRegistry("keel", reg)))

	var counters [3]atomic.Int64
	hooks := []func(any) error{
		func(any) error { counters[0].Add(1); return nil },
		func(any) error { counters[1].Add(1); panic("socket already closed") },
		func(any) error { counters[2].Add(1); return nil },
	}
	for i, name := range []string{"first", "second", "third"} {
		require.NoError(t, c.Register(Component[*repo](name, func([]any) (*repo, error) {
			return &repo{}, nil
		}, WithDestroyMethod(hooks[i]))))
		_, err := c.Get(name)
		require.NoError(t, err)
	}

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	for i := range counters {
		assert.Equal(t, int64(1), counters[i].Load(), "destroy hook %d", i)
	}
	assert.Len(t, log.Entries("failed to destroy component"), 1)
	assert.Equal(t, 1.0, gatheredValue(t, reg, "keel_destroy_failures_total"))
	assert.Equal(t, 0.0, gatheredValue(t, reg, "keel_singletons_cached"))
}

func TestClose_RejectsFurtherUse(t *testing.T) {
	c, _ := newTestContainer(t)
	ctor, _ := counting()
	require.NoError(t, c.Register(repoDescriptor(ctor)))
	_, err := c.Get("repo")
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.True(t, c.IsClosed())

	_, err = c.Get("repo")
	assert.True(t, errors.IsContainerClosed(err))
	_, err = c.GetByType(TypeOf[*repo]())
	assert.True(t, errors.IsContainerClosed(err))
	_, err = c.ComponentsOfType(TypeOf[*repo]())
	assert.True(t, errors.IsContainerClosed(err))
	assert.True(t, errors.IsContainerClosed(c.Register(repoDescriptor(ctor))))
	assert.True(t, errors.IsContainerClosed(c.RegisterInstance("pool", &repo{})))

	assert.False(t, c.Has("repo"))
	assert.Empty(t, c.Names())
}

func TestClose_DependentsFirst(t *testing.T) {
	c, _ := newTestContainer(t)

	var (
		mu    sync.Mutex
		trail []string
	)
	destroyFn := func(name string) Option {
		return WithDestroyMethod(func(any) error {
			mu.Lock()
			defer mu.Unlock()
			trail = append(trail, name)
			return nil
		})
	}

	ctor, _ := counting()
	require.NoError(t, c.Register(repoDescriptor(ctor, destroyFn("repo"))))
	require.NoError(t, c.Register(serviceDescriptor(destroyFn("service"))))
	require.NoError(t, c.Register(Component[*controller]("controller", func(args []any) (*controller, error) {
		return &controller{service: Arg[*service](args, 0)}, nil
	}, WithParams(ByType(TypeOf[*service]())), destroyFn("controller"))))

	// cache is declared to need the database although nothing injects it
	require.NoError(t, c.Register(Component[*nodeA]("cache", func([]any) (*nodeA, error) {
		return &nodeA{}, nil
	}, DependsOn("db"), destroyFn("cache"))))
	require.NoError(t, c.Register(Component[*nodeB]("db", func([]any) (*nodeB, error) {
		return &nodeB{}, nil
	}, destroyFn("db"))))

	for _, name := range []string{"controller", "cache", "db"} {
		_, err := c.Get(name)
		require.NoError(t, err)
	}

	require.NoError(t, c.Close())

	index := func(name string) int {
		for i, n := range trail {
			if n == name {
				return i
			}
		}
		t.Fatalf("%s was not destroyed", name)
		return -1
	}
	assert.Len(t, trail, 5)
	assert.Less(t, index("controller"), index("service"))
	assert.Less(t, index("service"), index("repo"))
	assert.Less(t, index("cache"), index("db"))
}

func TestClose_CycleFallsBackToReverseCreation(t *testing.T) {
	c, _ := newTestContainer(t)

	var trail []string
	record := func(name string) Option {
		return WithDestroyMethod(func(any) error {
			trail = append(trail, name)
			return nil
		})
	}

	require.NoError(t, c.Register(Component[*nodeA]("a", func([]any) (*nodeA, error) {
		return &nodeA{}, nil
	}, record("a"), WithInjections(Field[*nodeA, *nodeB](ByName("b"), func(a *nodeA, b *nodeB) { a.b = b })))))
	require.NoError(t, c.Register(Component[*nodeB]("b", func([]any) (*nodeB, error) {
		return &nodeB{}, nil
	}, record("b"), WithInjections(Field[*nodeB, *nodeA](ByName("a"), func(b *nodeB, a *nodeA) { b.a = a })))))

	_, err := c.Get("a")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// b finished first, so a goes first
	assert.Equal(t, []string{"a", "b"}, trail)
}

func TestClose_DisposeThenDestroyMethod(t *testing.T) {
	c, _ := newTestContainer(t)

	var (
		mu    sync.Mutex
		trail []string
	)
	conn := &disposableConn{mu: &mu, name: "conn", trail: &trail}
	require.NoError(t, c.Register(Component[*disposableConn]("conn", func([]any) (*disposableConn, error) {
		return conn, nil
	}, WithDestroyMethod(func(any) error {
		mu.Lock()
		defer mu.Unlock()
		trail = append(trail, "destroy:conn")
		return stderrors.New("already closed")
	}))))
	_, err := c.Get("conn")
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.Equal(t, []string{"dispose:conn", "destroy:conn"}, trail)
}

func TestClose_PreSeededInstancesAreDestroyed(t *testing.T) {
	c, _ := newTestContainer(t)

	var (
		mu    sync.Mutex
		trail []string
	)
	require.NoError(t, c.RegisterInstance("pool", &disposableConn{mu: &mu, name: "pool", trail: &trail}))
	require.NoError(t, c.Close())

	assert.Equal(t, []string{"dispose:pool"}, trail)
}

func gatheredValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}

	t.Fatalf("metric %s not found", name)
	return 0
}
