package services

import (
	"context"
	"testing"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

func createPet(t *testing.T, s *MemoryPetService, owner, name, species string, lat, lng float64) *models.Pet {
	t.Helper()
	pet, err := s.Create(context.Background(), owner, &models.CreatePetRequest{
		Name:      name,
		Species:   species,
		Age:       2,
		Latitude:  lat,
		Longitude: lng,
	})
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	return pet
}

func TestPetOwnershipEnforcedOnUpdateAndDelete(t *testing.T) {
	s := NewMemoryPetService(nil)
	ctx := context.Background()

	pet := createPet(t, s, "alice", "Rex", "dog", 0, 0)

	newName := "Max"
	if _, err := s.Update(ctx, "bob", pet.ID, &models.UpdatePetRequest{Name: &newName}); err != ErrNotPetOwner {
		t.Fatalf("stranger update err = %v, want ErrNotPetOwner", err)
	}
	if _, err := s.Delete(ctx, "bob", pet.ID); err != ErrNotPetOwner {
		t.Fatalf("stranger delete err = %v, want ErrNotPetOwner", err)
	}

	updated, err := s.Update(ctx, "alice", pet.ID, &models.UpdatePetRequest{Name: &newName})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Max" {
		t.Fatalf("name = %q", updated.Name)
	}
	if _, err := s.Delete(ctx, "alice", pet.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := s.GetByID(ctx, pet.ID); err != ErrPetNotFound {
		t.Fatalf("deleted pet still found, err = %v", err)
	}
}

func TestListFiltersBySpeciesAndAge(t *testing.T) {
	s := NewMemoryPetService(nil)
	ctx := context.Background()

	createPet(t, s, "alice", "Rex", "dog", 0, 0)
	createPet(t, s, "alice", "Tom", "cat", 0, 0)
	old, err := s.Create(ctx, "alice", &models.CreatePetRequest{Name: "Greybeard", Species: "dog", Age: 12})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.List(ctx, &models.ListPetsQuery{Species: "dog", MaxAge: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Rex" {
		t.Fatalf("filtered list = %d entries", len(got))
	}
	_ = old
}

func TestNearbyPetsSortedAndAdoptedExcluded(t *testing.T) {
	s := NewMemoryPetService(nil)
	ctx := context.Background()

	near := createPet(t, s, "alice", "Near", "dog", 0.01, 0)
	far := createPet(t, s, "alice", "Far", "dog", 0.05, 0)
	adopted := createPet(t, s, "alice", "Adopted", "dog", 0.02, 0)
	yes := true
	if _, err := s.Update(ctx, "alice", adopted.ID, &models.UpdatePetRequest{IsAdopted: &yes}); err != nil {
		t.Fatalf("mark adopted: %v", err)
	}

	got, err := s.ListNearby(ctx, 0, 0, 10000)
	if err != nil {
		t.Fatalf("ListNearby: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("nearby = %d pets, want 2", len(got))
	}
	if got[0].ID != near.ID || got[1].ID != far.ID {
		t.Fatal("nearby pets not sorted nearest first")
	}
}

func TestFavoriteAddIsIdempotent(t *testing.T) {
	pets := NewMemoryPetService(nil)
	favs := NewMemoryFavoriteService(pets)
	ctx := context.Background()

	pet := createPet(t, pets, "alice", "Rex", "dog", 0, 0)

	first, err := favs.Add(ctx, "bob", pet.ID)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := favs.Add(ctx, "bob", pet.ID)
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("repeat favorite created a new record")
	}

	list, err := favs.ListFor(ctx, "bob")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(list) != 1 || list[0].Pet.Name != "Rex" {
		t.Fatalf("favorites = %d entries", len(list))
	}

	if err := favs.Remove(ctx, "bob", pet.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := favs.Remove(ctx, "bob", pet.ID); err != ErrFavoriteNotFound {
		t.Fatalf("second remove err = %v, want ErrFavoriteNotFound", err)
	}
}

func TestFavoritesSkipDeletedPets(t *testing.T) {
	pets := NewMemoryPetService(nil)
	favs := NewMemoryFavoriteService(pets)
	ctx := context.Background()

	pet := createPet(t, pets, "alice", "Rex", "dog", 0, 0)
	if _, err := favs.Add(ctx, "bob", pet.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := pets.Delete(ctx, "alice", pet.ID); err != nil {
		t.Fatalf("Delete pet: %v", err)
	}

	list, err := favs.ListFor(ctx, "bob")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("favorites still list deleted pet: %d entries", len(list))
	}
}
