// Package authform implements the sign-in and sign-up submission protocols:
// local validation, a busy flag around the provider call, and the
// navigation that follows a successful sign-in.
package authform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator"

	"github.com/bindvalue/bindvalue/internal/nav"
	"github.com/bindvalue/bindvalue/internal/session"
)

var (
	// ErrPasswordMismatch is returned when the confirmation differs from the password.
	ErrPasswordMismatch = errors.New("password confirmation does not match")

	// ErrInvalidFields is returned when a required field is missing or malformed.
	ErrInvalidFields = errors.New("invalid form fields")

	// ErrBusy is returned when a submission arrives while another is outstanding.
	ErrBusy = errors.New("submission already in progress")
)

// SignInFields is the sign-in form state.
type SignInFields struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SignUpFields is the registration form state.
type SignUpFields struct {
	FullName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

const (
	signInLabel     = "Entrar"
	signInBusyLabel = "Entrando..."
	signUpLabel     = "Criar Conta"
	signUpBusyLabel = "Cadastrando..."
)

// Form submits credential forms to a session provider. One Form backs one
// rendered pair of sign-in and sign-up forms and shares a single busy flag
// between them. The flag only rejects submissions made through the same
// Form; a server that builds a Form per request relies on the page disabling
// its submit button and on rate limiting instead.
type Form struct {
	provider session.Provider
	nav      nav.Navigator
	validate *validator.Validate
	busy     atomic.Bool
}

// New returns a Form that calls p and navigates through n.
func New(p session.Provider, n nav.Navigator) *Form {
	return &Form{provider: p, nav: n, validate: validator.New()}
}

// Busy reports whether a provider call is outstanding.
func (f *Form) Busy() bool { return f.busy.Load() }

// SignInLabel is the sign-in submit caption for the current busy state.
func (f *Form) SignInLabel() string { return SignInLabel(f.Busy()) }

// SignUpLabel is the sign-up submit caption for the current busy state.
func (f *Form) SignUpLabel() string { return SignUpLabel(f.Busy()) }

// SignInLabel returns the sign-in caption for busy.
func SignInLabel(busy bool) string {
	if busy {
		return signInBusyLabel
	}
	return signInLabel
}

// SignUpLabel returns the sign-up caption for busy.
func SignUpLabel(busy bool) string {
	if busy {
		return signUpBusyLabel
	}
	return signUpLabel
}

// SignIn submits fields. On success it navigates to the dashboard once; on
// any error it does not navigate and fields are left as submitted.
func (f *Form) SignIn(ctx context.Context, fields SignInFields) error {
	if err := f.check(fields); err != nil {
		return err
	}
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	if err := f.provider.SignIn(ctx, fields.Email, fields.Password); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	f.nav.Navigate(nav.Dashboard)
	return nil
}

// SignUp submits fields. A confirmation that differs from the password
// aborts before the provider is called. Success never navigates: the
// provider may require confirming the email before a session exists.
func (f *Form) SignUp(ctx context.Context, fields SignUpFields) error {
	if fields.Password != fields.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := f.check(fields); err != nil {
		return err
	}
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	if err := f.provider.SignUp(ctx, fields.Email, fields.Password, fields.FullName); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

func (f *Form) check(fields any) error {
	err := f.validate.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field())
	}
	return &FieldError{Fields: names}
}

// FieldError lists the fields that failed validation.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return "invalid form fields: " + strings.Join(e.Fields, ", ")
}

// Unwrap makes errors.Is(err, ErrInvalidFields) hold.
func (e *FieldError) Unwrap() error { return ErrInvalidFields }

// Message returns the user-facing text for a form error, or "" when the
// error is the provider's to report.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPasswordMismatch):
		return "As senhas não coincidem."
	case errors.Is(err, ErrInvalidFields):
		return "Preencha todos os campos com valores válidos."
	case errors.Is(err, ErrBusy):
		return "Aguarde a conclusão da solicitação anterior."
	default:
		return ""
	}
}
