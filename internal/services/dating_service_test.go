package services

import (
	"context"
	"testing"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

func createProfile(t *testing.T, s *MemoryDatingService, ownerID string, age int, lat, lng float64) *models.DatingProfile {
	t.Helper()
	req := &models.CreateDatingProfileRequest{
		PetName:   "Rex",
		Age:       age,
		Gender:    models.GenderOther,
		Latitude:  &lat,
		Longitude: &lng,
	}
	p, err := s.Create(context.Background(), ownerID, req)
	if err != nil {
		t.Fatalf("Create(%s): %v", ownerID, err)
	}
	return p
}

func TestLikeWithoutReciprocityDoesNotMatch(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	a := createProfile(t, s, "alice", 30, 0, 0)
	b := createProfile(t, s, "bob", 28, 0, 0)

	matched, err := s.Like(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if matched {
		t.Fatal("one-sided like reported a match")
	}

	got, _ := s.GetByID(ctx, a.ID)
	if len(got.Matches) != 0 {
		t.Fatalf("matches = %v, want empty", got.Matches)
	}
}

func TestLikeAndPassRequireActorProfile(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	target := createProfile(t, s, "bob", 28, 0, 0)

	if _, err := s.Like(ctx, "ghost", target.ID); err != ErrProfileNotFound {
		t.Fatalf("Like without actor profile err = %v, want ErrProfileNotFound", err)
	}
	if err := s.Pass(ctx, "ghost", target.ID); err != ErrProfileNotFound {
		t.Fatalf("Pass without actor profile err = %v, want ErrProfileNotFound", err)
	}

	got, _ := s.GetByID(ctx, target.ID)
	if len(got.Likes) != 0 || len(got.Matches) != 0 {
		t.Fatalf("target mutated: likes=%v matches=%v", got.Likes, got.Matches)
	}
}

func TestMutualLikeCreatesMatchOnBothProfiles(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	a := createProfile(t, s, "alice", 30, 0, 0)
	b := createProfile(t, s, "bob", 28, 0, 0)

	if matched, err := s.Like(ctx, "alice", b.ID); err != nil || matched {
		t.Fatalf("first like: matched=%v err=%v", matched, err)
	}
	matched, err := s.Like(ctx, "bob", a.ID)
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}
	if !matched {
		t.Fatal("reciprocal like did not report a match")
	}

	gotA, _ := s.GetByID(ctx, a.ID)
	gotB, _ := s.GetByID(ctx, b.ID)
	if len(gotA.Matches) != 1 || gotA.Matches[0] != b.ID {
		t.Fatalf("alice matches = %v, want [%s]", gotA.Matches, b.ID)
	}
	if len(gotB.Matches) != 1 || gotB.Matches[0] != a.ID {
		t.Fatalf("bob matches = %v, want [%s]", gotB.Matches, a.ID)
	}
}

func TestRepeatedLikeIsIdempotent(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	createProfile(t, s, "alice", 30, 0, 0)
	b := createProfile(t, s, "bob", 28, 0, 0)

	for i := 0; i < 3; i++ {
		if _, err := s.Like(ctx, "alice", b.ID); err != nil {
			t.Fatalf("Like #%d: %v", i+1, err)
		}
	}

	got, _ := s.GetByID(ctx, b.ID)
	self, _ := s.GetByOwner(ctx, "alice")
	if len(self.Likes) != 1 {
		t.Fatalf("likes = %v, want a single entry", self.Likes)
	}
	_ = got
}

func TestSelfLikeRejected(t *testing.T) {
	s := NewMemoryDatingService(nil)

	a := createProfile(t, s, "alice", 30, 0, 0)

	if _, err := s.Like(context.Background(), "alice", a.ID); err != ErrSelfAction {
		t.Fatalf("self like err = %v, want ErrSelfAction", err)
	}
	if err := s.Pass(context.Background(), "alice", a.ID); err != ErrSelfAction {
		t.Fatalf("self pass err = %v, want ErrSelfAction", err)
	}
}

func TestSecondProfilePerOwnerRejected(t *testing.T) {
	s := NewMemoryDatingService(nil)

	createProfile(t, s, "alice", 30, 0, 0)
	lat, lng := 1.0, 1.0
	_, err := s.Create(context.Background(), "alice", &models.CreateDatingProfileRequest{
		Age:       25,
		Gender:    models.GenderFemale,
		Latitude:  &lat,
		Longitude: &lng,
	})
	if err != ErrProfileExists {
		t.Fatalf("second create err = %v, want ErrProfileExists", err)
	}
}

func TestToggleActiveFlips(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	p := createProfile(t, s, "alice", 30, 0, 0)
	if !p.IsActive {
		t.Fatal("new profile should start active")
	}

	toggled, err := s.ToggleActive(ctx, "alice")
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if toggled.IsActive {
		t.Fatal("toggle did not deactivate")
	}

	toggled, _ = s.ToggleActive(ctx, "alice")
	if !toggled.IsActive {
		t.Fatal("second toggle did not reactivate")
	}
}

func TestNearbyExcludesInactiveAndSelfAndSorts(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	// Distances from the origin increase with latitude.
	createProfile(t, s, "origin", 30, 0, 0)
	far := createProfile(t, s, "far", 30, 0.05, 0)    // ~5.5km
	near := createProfile(t, s, "near", 30, 0.01, 0)  // ~1.1km
	inactive := createProfile(t, s, "hidden", 30, 0.02, 0)
	if _, err := s.ToggleActive(ctx, "hidden"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	createProfile(t, s, "elsewhere", 30, 10, 10)

	got, err := s.Nearby(ctx, &models.NearbyProfilesQuery{
		Latitude: 0, Longitude: 0, RadiusM: 10000,
	})
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}

	ids := make([]string, 0, len(got))
	for _, np := range got {
		ids = append(ids, np.Profile.ID)
		if np.Profile.ID == inactive.ID {
			t.Fatal("inactive profile surfaced in nearby results")
		}
	}
	// origin itself is a profile at distance 0 and comes first; then near,
	// then far.
	if len(ids) != 3 {
		t.Fatalf("nearby ids = %v, want 3 results", ids)
	}
	if ids[1] != near.ID || ids[2] != far.ID {
		t.Fatalf("nearby order = %v, want nearest first", ids)
	}

	for i := 1; i < len(got); i++ {
		if got[i-1].DistanceM > got[i].DistanceM {
			t.Fatalf("distances not ascending: %v then %v", got[i-1].DistanceM, got[i].DistanceM)
		}
	}
}

func TestNearbyGenderAndAgeFilters(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	lat, lng := 0.0, 0.0
	mk := func(owner, gender string, age int) {
		t.Helper()
		_, err := s.Create(ctx, owner, &models.CreateDatingProfileRequest{
			Age: age, Gender: gender, Latitude: &lat, Longitude: &lng,
		})
		if err != nil {
			t.Fatalf("Create(%s): %v", owner, err)
		}
	}
	mk("m30", models.GenderMale, 30)
	mk("f25", models.GenderFemale, 25)
	mk("f50", models.GenderFemale, 50)

	got, err := s.Nearby(ctx, &models.NearbyProfilesQuery{
		RadiusM: 1000, Gender: models.GenderFemale, MinAge: 20, MaxAge: 40,
	})
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 1 || got[0].Profile.OwnerID != "f25" {
		t.Fatalf("filtered nearby = %d results, want only f25", len(got))
	}
}

func TestPassExcludedFromFutureMatching(t *testing.T) {
	s := NewMemoryDatingService(nil)
	ctx := context.Background()

	a := createProfile(t, s, "alice", 30, 0, 0)
	b := createProfile(t, s, "bob", 28, 0, 0)

	if err := s.Pass(ctx, "alice", b.ID); err != nil {
		t.Fatalf("Pass: %v", err)
	}

	// Bob likes Alice afterwards; no match may form because Alice passed.
	matched, err := s.Like(ctx, "bob", a.ID)
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if matched {
		t.Fatal("match formed despite an earlier pass")
	}
}
