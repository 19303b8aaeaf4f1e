package keel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/keel"
)

type userStore struct{ users map[string]string }

type sessionService struct{ store *userStore }

func TestContainerLifecycle(t *testing.T) {
	c := keel.NewContainer(
		keel.WithLogger(keel.NewNoopLogger()),
		keel.WithMetrics(keel.NewNoopMetrics()),
	)

	closed := false
	require.NoError(t, c.Register(keel.Component[*userStore]("users", func([]any) (*userStore, error) {
		return &userStore{users: map[string]string{"u1": "ada"}}, nil
	}, keel.WithDestroyMethod(func(any) error {
		closed = true
		return nil
	}))))
	require.NoError(t, c.Register(keel.Component[*sessionService]("sessions", func(args []any) (*sessionService, error) {
		return &sessionService{store: keel.Arg[*userStore](args, 0)}, nil
	}, keel.WithParams(keel.ByType(keel.TypeOf[*userStore]())))))

	app, err := keel.Start(context.Background(), c)
	require.NoError(t, err)

	sessions, err := keel.ResolveType[*sessionService](c)
	require.NoError(t, err)
	assert.Equal(t, "ada", sessions.store.users["u1"])

	require.NoError(t, app.Close())
	assert.True(t, closed)

	_, err = c.Get("sessions")
	assert.True(t, keel.IsContainerClosed(err))
}

type roomRegistry struct{ presence *presenceTracker }

type presenceTracker struct{ rooms *roomRegistry }

func TestFieldInjectionCycle(t *testing.T) {
	c := keel.NewContainer(
		keel.WithLogger(keel.NewNoopLogger()),
		keel.WithMetrics(keel.NewNoopMetrics()),
	)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Register(keel.Component[*roomRegistry]("rooms", func([]any) (*roomRegistry, error) {
		return &roomRegistry{}, nil
	}, keel.WithInjections(keel.InjectField[*roomRegistry, *presenceTracker](keel.ByName("presence"),
		func(r *roomRegistry, p *presenceTracker) { r.presence = p })))))
	require.NoError(t, c.Register(keel.Component[*presenceTracker]("presence", func([]any) (*presenceTracker, error) {
		return &presenceTracker{}, nil
	}, keel.WithInjections(keel.InjectField[*presenceTracker, *roomRegistry](keel.ByName("rooms"),
		func(p *presenceTracker, r *roomRegistry) { p.rooms = r })))))

	rooms, err := keel.Resolve[*roomRegistry](c, "rooms")
	require.NoError(t, err)
	require.NotNil(t, rooms.presence)
	assert.Same(t, rooms, rooms.presence.rooms)
}

func TestConfigDefaults(t *testing.T) {
	cfg := keel.DefaultConfig()
	assert.True(t, cfg.Container.EagerInit)
	assert.Equal(t, "keel", cfg.Metrics.Namespace)
}
