package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bindvalue/bindvalue/internal/store"
	"github.com/bindvalue/bindvalue/internal/testutil"
)

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewUserStore(db)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normal", "a@b.com", "a@b.com"},
		{"mixed case", "Alice@Example.COM", "alice@example.com"},
		{"surrounding spaces", "  bob@example.com\t", "bob@example.com"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.NormalizeEmail(tt.input); got != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "Alice@Example.com", " Alice Smith ", "hash", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized", u.Email)
	}
	if u.FullName != "Alice Smith" {
		t.Errorf("full name = %q, want trimmed", u.FullName)
	}
	if u.Confirmed() {
		t.Error("new user should not be confirmed")
	}

	byEmail, err := us.GetByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetByEmail id = %s, want %s", byEmail.ID, u.ID)
	}
	if byEmail.PasswordHash != "hash" {
		t.Errorf("password hash = %q, want %q", byEmail.PasswordHash, "hash")
	}

	byID, err := us.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != u.Email {
		t.Errorf("GetByID email = %q, want %q", byID.Email, u.Email)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	if _, err := us.Create(ctx, "dup@example.com", "First", "h1", false); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := us.Create(ctx, "DUP@example.com", "Second", "h2", false)
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("second create error = %v, want ErrDuplicateEmail", err)
	}

	n, err := us.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestGet_NotFound(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	if _, err := us.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByEmail error = %v, want ErrNotFound", err)
	}
	if _, err := us.GetByID(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
	if err := us.Confirm(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Confirm error = %v, want ErrNotFound", err)
	}
}

func TestConfirm(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "c@example.com", "C", "h", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := us.Confirm(ctx, u.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	got, err := us.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Confirmed() {
		t.Fatal("user should be confirmed")
	}
	first := got.ConfirmedAt.Time

	if err := us.Confirm(ctx, u.ID); err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	again, err := us.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !again.ConfirmedAt.Time.Equal(first) {
		t.Errorf("confirmed_at changed from %v to %v", first, again.ConfirmedAt.Time)
	}
}

func TestUpsertExternal(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	created, err := us.UpsertExternal(ctx, "sso@example.com", "Sso User")
	if err != nil {
		t.Fatalf("upsert new: %v", err)
	}
	if !created.Confirmed() {
		t.Error("SSO user should be confirmed")
	}
	if created.PasswordHash != "" {
		t.Error("SSO user should have no password")
	}

	again, err := us.UpsertExternal(ctx, "SSO@example.com", "Other Name")
	if err != nil {
		t.Fatalf("upsert existing: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("upsert created a second user: %s != %s", again.ID, created.ID)
	}

	local, err := us.Create(ctx, "local@example.com", "Local", "h", false)
	if err != nil {
		t.Fatalf("create local: %v", err)
	}
	linked, err := us.UpsertExternal(ctx, "local@example.com", "Local")
	if err != nil {
		t.Fatalf("upsert local: %v", err)
	}
	if linked.ID != local.ID || !linked.Confirmed() {
		t.Errorf("existing local account should be confirmed in place, got %+v", linked)
	}
}
