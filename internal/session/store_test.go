package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreStartsLoading(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Current().Is(StatusLoading))
	assert.Equal(t, 0, s.Subscribers())
}

func TestSubscribeDeliversCurrentState(t *testing.T) {
	s := NewStore()
	s.Publish(Anonymous())

	var got []State
	unsub := s.Subscribe(func(st State) { got = append(got, st) })
	defer unsub()

	require.Len(t, got, 1)
	assert.True(t, got[0].Is(StatusAnonymous))
}

func TestPublishOrder(t *testing.T) {
	s := NewStore()
	var order []string
	s.Subscribe(func(st State) { order = append(order, "first:"+st.String()) })
	s.Subscribe(func(st State) { order = append(order, "second:"+st.String()) })
	order = nil

	s.Publish(Anonymous())
	s.Publish(Authenticated(User{Email: "a@b.com"}))

	assert.Equal(t, []string{
		"first:anonymous",
		"second:anonymous",
		"first:authenticated(a@b.com)",
		"second:authenticated(a@b.com)",
	}, order)
	assert.True(t, s.Current().Is(StatusAuthenticated))
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	calls := 0
	unsub := s.Subscribe(func(State) { calls++ })
	assert.Equal(t, 1, s.Subscribers())

	unsub()
	unsub()
	assert.Equal(t, 0, s.Subscribers())

	s.Publish(Anonymous())
	assert.Equal(t, 1, calls, "only the initial delivery")
}

type stubProvider struct {
	state State
	err   error
}

func (p stubProvider) Current(context.Context) (State, error)           { return p.state, p.err }
func (stubProvider) SignIn(context.Context, string, string) error         { return nil }
func (stubProvider) SignUp(context.Context, string, string, string) error { return nil }
func (stubProvider) SignOut(context.Context) error                        { return nil }

func TestResolve(t *testing.T) {
	u := User{ID: "1", Email: "a@b.com"}

	t.Run("publishes the provider answer", func(t *testing.T) {
		s := NewStore()
		st, err := Resolve(context.Background(), stubProvider{state: Authenticated(u)}, s)
		require.NoError(t, err)
		assert.True(t, st.Is(StatusAuthenticated))
		assert.True(t, s.Current().Is(StatusAuthenticated))
	})

	t.Run("provider failure settles anonymous", func(t *testing.T) {
		s := NewStore()
		boom := errors.New("db down")
		st, err := Resolve(context.Background(), stubProvider{state: Loading(), err: boom}, s)
		assert.ErrorIs(t, err, boom)
		assert.True(t, st.Is(StatusAnonymous))
		assert.True(t, s.Current().Is(StatusAnonymous))
	})

	t.Run("cancellation stays loading", func(t *testing.T) {
		s := NewStore()
		published := 0
		s.Subscribe(func(State) { published++ })
		st, err := Resolve(context.Background(), stubProvider{err: context.Canceled}, s)
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, st.Is(StatusLoading))
		assert.True(t, s.Current().Is(StatusLoading))
		assert.Equal(t, 1, published, "no publish after the initial delivery")
	})
}
