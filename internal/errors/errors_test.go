package errors

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type greeter interface{ Greet() string }

func TestKeelErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same error code matches",
			err:    ErrNoSuchComponent("repo"),
			target: ErrNoSuchComponentSentinel,
			want:   true,
		},
		{
			name:   "different error code does not match",
			err:    ErrNoSuchComponent("repo"),
			target: ErrAmbiguousComponentSentinel,
			want:   false,
		},
		{
			name:   "wrapped cause matches",
			err:    ErrCreationFailure("service", ErrCyclicDependency([]string{"a", "b", "a"})),
			target: ErrCyclicDependencySentinel,
			want:   true,
		},
		{
			name:   "fmt wrapped matches",
			err:    fmt.Errorf("get: %w", ErrContainerClosed("get")),
			target: ErrContainerClosedSentinel,
			want:   true,
		},
		{
			name:   "nil target does not match",
			err:    ErrNoSuchComponent("repo"),
			target: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.target))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	typ := reflect.TypeOf((*greeter)(nil)).Elem()

	assert.Equal(t, "no component named 'repo'", ErrNoSuchComponent("repo").Error())
	assert.Equal(t, "no component of type 'errors.greeter'", ErrNoSuchComponentType(typ).Error())
	assert.Equal(t, "cyclic dependency detected: a -> b -> a", ErrCyclicDependency([]string{"a", "b", "a"}).Error())
	assert.Equal(t,
		"failed to create component 'svc': no component named 'repo'",
		ErrCreationFailure("svc", ErrNoSuchComponent("repo")).Error())
	assert.Contains(t, ErrAmbiguousComponent(typ, []string{"en", "fr"}).Error(), "en, fr")
}

func TestAmbiguousNames(t *testing.T) {
	typ := reflect.TypeOf((*greeter)(nil)).Elem()
	amb := ErrAmbiguousComponent(typ, []string{"en", "fr"})

	assert.Equal(t, []string{"en", "fr"}, AmbiguousNames(amb))
	assert.Equal(t, []string{"en", "fr"}, AmbiguousNames(ErrCreationFailure("svc", amb)))
	assert.Nil(t, AmbiguousNames(ErrNoSuchComponent("x")))
	assert.Nil(t, AmbiguousNames(New("plain")))
}

func TestHelpers(t *testing.T) {
	wrapped := ErrCreationFailure("svc", ErrMissingDependency("svc", "repo"))

	assert.True(t, IsCreationFailure(wrapped))
	assert.True(t, IsMissingDependency(wrapped))
	assert.False(t, IsNoSuchComponent(wrapped))
	assert.True(t, IsContainerClosed(ErrContainerClosed("register")))
	assert.True(t, IsAmbiguousComponent(ErrAmbiguousComponent(nil, nil)))
	assert.True(t, Is(ErrDuplicateRegistration("x"), ErrDuplicateRegistrationSentinel))
	assert.Equal(t, "svc", ComponentOf(wrapped))
	assert.Equal(t, "", ComponentOf(New("plain")))
}
