package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type User struct {
	ID           string       `db:"id"`
	Email        string       `db:"email"`
	FullName     string       `db:"full_name"`
	PasswordHash string       `db:"password_hash"`
	ConfirmedAt  sql.NullTime `db:"confirmed_at"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// Confirmed reports whether the user has confirmed their email address.
func (u *User) Confirmed() bool {
	return u.ConfirmedAt.Valid
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user. passwordHash may be empty for accounts that
// only sign in through SSO. confirmed marks the email as already verified.
func (s *UserStore) Create(ctx context.Context, email, fullName, passwordHash string, confirmed bool) (*User, error) {
	email = NormalizeEmail(email)
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if confirmed {
		u.ConfirmedAt = sql.NullTime{Time: now, Valid: true}
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, confirmed_at, created_at, updated_at)
		VALUES (:id, :email, :full_name, :password_hash, :confirmed_at, :created_at, :updated_at)
	`, u)
	if err != nil {
		// A concurrent sign-up may have won the unique index.
		if _, lookupErr := s.GetByEmail(ctx, email); lookupErr == nil {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// UpsertExternal returns the user with the given email, creating a
// confirmed, password-less account when none exists. An existing account is
// marked confirmed since the identity provider vouched for the address.
func (s *UserStore) UpsertExternal(ctx context.Context, email, fullName string) (*User, error) {
	u, err := s.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		u, err = s.Create(ctx, email, fullName, "", true)
		if errors.Is(err, ErrDuplicateEmail) {
			return s.GetByEmail(ctx, email)
		}
		return u, err
	case err != nil:
		return nil, err
	}

	if !u.Confirmed() {
		if err := s.Confirm(ctx, u.ID); err != nil {
			return nil, err
		}
		return s.GetByID(ctx, u.ID)
	}
	return u, nil
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE email = ?`), NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Confirm marks the user's email as verified. Confirming twice keeps the
// original timestamp.
func (s *UserStore) Confirm(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users SET confirmed_at = COALESCE(confirmed_at, ?), updated_at = ? WHERE id = ?
	`), now, now, id)
	if err != nil {
		return fmt.Errorf("confirm user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, err
	}
	return n, nil
}
