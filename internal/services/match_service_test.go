package services

import (
	"context"
	"testing"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

type fakeDirectory struct {
	users map[string]*models.User
}

func (d *fakeDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type fakeResolver struct {
	profiles map[string]*models.DatingProfile
}

func (r *fakeResolver) GetByID(ctx context.Context, id string) (*models.DatingProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func TestMatchCreateIsOrderIndependent(t *testing.T) {
	s := NewMemoryMatchService(nil, nil, nil)
	ctx := context.Background()

	first, err := s.Create(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("Create(bob, alice): %v", err)
	}
	second, err := s.Create(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Create(alice, bob): %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("reversed pair created a new record: %s vs %s", first.ID, second.ID)
	}
	if first.UserA != "alice" || first.UserB != "bob" {
		t.Fatalf("pair not stored canonically: %s / %s", first.UserA, first.UserB)
	}
}

func TestMatchCreateRejectsSelfPair(t *testing.T) {
	s := NewMemoryMatchService(nil, nil, nil)

	if _, err := s.Create(context.Background(), "alice", "alice"); err != ErrMatchBadInput {
		t.Fatalf("self pair err = %v, want ErrMatchBadInput", err)
	}
}

func TestListForEnrichesFromDirectory(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"bob": {UserID: "bob", Name: "Bob", Email: "bob@example.com"},
	}}
	s := NewMemoryMatchService(dir, nil, nil)
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", "bob"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.ListFor(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListFor returned %d matches, want 1", len(got))
	}
	if got[0].Partner.Name != "Bob" {
		t.Fatalf("partner name = %q, want Bob", got[0].Partner.Name)
	}
}

func TestListForFallsBackToProfileOwner(t *testing.T) {
	// The counterpart id is a dating-profile id, not a directory uid; the
	// registry must follow the owner reference.
	dir := &fakeDirectory{users: map[string]*models.User{
		"bob": {UserID: "bob", Name: "Bob"},
	}}
	res := &fakeResolver{profiles: map[string]*models.DatingProfile{
		"profile-1": {ID: "profile-1", OwnerID: "bob"},
	}}
	s := NewMemoryMatchService(dir, res, nil)
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", "profile-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.ListFor(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(got) != 1 || got[0].Partner.Name != "Bob" {
		t.Fatalf("profile fallback did not resolve owner: %+v", got)
	}
}

func TestListForUnresolvableCounterpartYieldsPlaceholder(t *testing.T) {
	s := NewMemoryMatchService(&fakeDirectory{users: map[string]*models.User{}}, nil, nil)
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", "ghost"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.ListFor(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("orphaned counterpart dropped the match")
	}
	if got[0].Partner.UserID != "ghost" || got[0].Partner.Name != "Unknown" {
		t.Fatalf("placeholder partner = %+v", got[0].Partner)
	}
}

func TestMatchDeleteIsIdempotent(t *testing.T) {
	s := NewMemoryMatchService(nil, nil, nil)
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", "bob"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, "bob", "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "alice", "bob"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	got, _ := s.ListFor(ctx, "alice")
	if len(got) != 0 {
		t.Fatalf("match still listed after delete")
	}
}
