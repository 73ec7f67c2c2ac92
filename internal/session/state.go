// Package session models the authentication state shared by every page that
// depends on who is signed in, and the capability interface of the provider
// that owns it.
package session

import "fmt"

// Status is the tag of a State.
type Status uint8

const (
	// StatusLoading means the session check is still in flight.
	StatusLoading Status = iota + 1
	// StatusAuthenticated means a user session exists.
	StatusAuthenticated
	// StatusAnonymous means the check finished and nobody is signed in.
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Settled reports whether the status is a final answer of a session check.
func (s Status) Settled() bool {
	return s == StatusAuthenticated || s == StatusAnonymous
}

// User is the part of an authenticated user the UI consumes.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName returns the full name, falling back to the email.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// State is exactly one of Loading, Authenticated(User) or Anonymous.
// The zero value is Loading.
type State struct {
	status Status
	user   User
}

// Loading returns the state observed while the session check is in flight.
func Loading() State { return State{status: StatusLoading} }

// Authenticated returns the state of a signed-in user.
func Authenticated(u User) State { return State{status: StatusAuthenticated, user: u} }

// Anonymous returns the state of a finished check with no session.
func Anonymous() State { return State{status: StatusAnonymous} }

// Status returns the tag, treating the zero value as Loading.
func (s State) Status() Status {
	if s.status == 0 {
		return StatusLoading
	}
	return s.status
}

// User returns the signed-in user. ok is false unless the state is Authenticated.
func (s State) User() (u User, ok bool) {
	if s.Status() != StatusAuthenticated {
		return User{}, false
	}
	return s.user, true
}

// Is reports whether the state carries the given tag.
func (s State) Is(st Status) bool { return s.Status() == st }

func (s State) String() string {
	if u, ok := s.User(); ok {
		return "authenticated(" + u.Email + ")"
	}
	return s.Status().String()
}

// Match dispatches on the state, calling exactly one of the three branches.
func Match[T any](s State, loading func() T, authenticated func(User) T, anonymous func() T) T {
	switch s.Status() {
	case StatusAuthenticated:
		return authenticated(s.user)
	case StatusAnonymous:
		return anonymous()
	default:
		return loading()
	}
}
