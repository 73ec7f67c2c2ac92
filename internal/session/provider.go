package session

import (
	"context"
	"errors"
)

// Provider is the session capability the UI depends on. It is the sole
// owner of session state: sign-in, sign-up and sign-out requests go through
// it, and Current reports what it holds.
//
// Errors returned by SignIn, SignUp and SignOut have already been surfaced
// to the user through the provider's own reporting channel; callers only
// decide whether to navigate.
type Provider interface {
	Current(ctx context.Context) (State, error)
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, fullName string) error
	SignOut(ctx context.Context) error
}

// Resolve runs the current-session query and publishes its answer.
//
// A cancelled or timed-out context leaves the store Loading, since no answer
// was obtained. Any other provider failure is published as Anonymous.
func Resolve(ctx context.Context, p Provider, s *Store) (State, error) {
	st, err := p.Current(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return s.Current(), err
		}
		st = Anonymous()
	}
	s.Publish(st)
	return st, err
}
