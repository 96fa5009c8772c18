package services

import (
	"context"
	"testing"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

func TestGetOrCreateMaterializesAndBackfills(t *testing.T) {
	s := NewMemoryUserService(nil)
	ctx := context.Background()

	u, err := s.GetOrCreate(ctx, "uid-1", "", "Alice", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if u.Email != "" {
		t.Fatalf("email = %q, want empty", u.Email)
	}

	// Second login carries the email; it backfills without clobbering.
	u, err = s.GetOrCreate(ctx, "uid-1", "alice@example.com", "Someone Else", "pic.png")
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not backfilled: %q", u.Email)
	}
	if u.Name != "Alice" {
		t.Fatalf("existing name clobbered: %q", u.Name)
	}
	if u.Picture != "pic.png" {
		t.Fatalf("picture not backfilled: %q", u.Picture)
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	s := NewMemoryUserService(nil)
	ctx := context.Background()

	u, err := s.Register(ctx, &models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PasswordHash == "hunter22" || u.PasswordHash == "" {
		t.Fatal("password stored in the clear or not at all")
	}

	if _, err := s.Register(ctx, &models.RegisterRequest{
		Email: "alice@example.com", Password: "other", Name: "Imposter",
	}); err != ErrEmailExists {
		t.Fatalf("duplicate register err = %v, want ErrEmailExists", err)
	}

	got, err := s.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.UserID != u.UserID {
		t.Fatalf("login returned wrong user: %s", got.UserID)
	}

	if _, err := s.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "wrong"}); err != ErrInvalidPassword {
		t.Fatalf("bad password err = %v, want ErrInvalidPassword", err)
	}
	if _, err := s.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "x"}); err != ErrUserNotFound {
		t.Fatalf("unknown email err = %v, want ErrUserNotFound", err)
	}
}

func TestUpsertUpdatesOnlyProvidedFields(t *testing.T) {
	s := NewMemoryUserService(nil)
	ctx := context.Background()

	if _, err := s.GetOrCreate(ctx, "uid-1", "alice@example.com", "Alice", ""); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	bio := "dog person"
	u, err := s.Upsert(ctx, "uid-1", &models.UpsertUserRequest{Bio: &bio})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if u.Bio != "dog person" {
		t.Fatalf("bio = %q", u.Bio)
	}
	if u.Name != "Alice" {
		t.Fatalf("name changed unexpectedly: %q", u.Name)
	}

	if _, err := s.Upsert(ctx, "uid-missing", &models.UpsertUserRequest{Bio: &bio}); err != ErrUserNotFound {
		t.Fatalf("missing upsert err = %v, want ErrUserNotFound", err)
	}
}
