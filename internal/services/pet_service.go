package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/storage"
)

var (
	ErrPetNotFound = errors.New("pet not found")
	ErrNotPetOwner = errors.New("not the owner of this pet")
	ErrPetBadInput = errors.New("invalid pet input")
)

const defaultPetListLimit = 100

// PetService manages adoption listings.
type PetService interface {
	Create(ctx context.Context, ownerID string, req *models.CreatePetRequest) (*models.Pet, error)
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	Update(ctx context.Context, ownerID, id string, req *models.UpdatePetRequest) (*models.Pet, error)
	Delete(ctx context.Context, ownerID, id string) (*models.Pet, error)
	List(ctx context.Context, q *models.ListPetsQuery) ([]*models.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error)
	ListNearby(ctx context.Context, lat, lng, radiusM float64) ([]*models.Pet, error)
}

// MemoryPetService keeps listings in a map, optionally snapshotted to disk.
type MemoryPetService struct {
	mu    sync.RWMutex
	pets  map[string]*models.Pet
	store *storage.JSONStore
}

func NewMemoryPetService(store *storage.JSONStore) *MemoryPetService {
	s := &MemoryPetService{
		pets:  make(map[string]*models.Pet),
		store: store,
	}
	if store != nil {
		var saved []*models.Pet
		if err := store.Load(&saved); err == nil {
			for _, p := range saved {
				s.pets[p.ID] = p
			}
		}
	}
	return s
}

func (s *MemoryPetService) snapshot() {
	if s.store == nil {
		return
	}
	all := make([]*models.Pet, 0, len(s.pets))
	for _, p := range s.pets {
		all = append(all, p)
	}
	_ = s.store.Save(all)
}

func (s *MemoryPetService) Create(ctx context.Context, ownerID string, req *models.CreatePetRequest) (*models.Pet, error) {
	if ownerID == "" {
		return nil, ErrPetBadInput
	}

	now := time.Now()
	pet := &models.Pet{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Age:         req.Age,
		Gender:      req.Gender,
		Price:       req.Price,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.pets[pet.ID] = pet
	s.snapshot()
	s.mu.Unlock()

	return pet, nil
}

func (s *MemoryPetService) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, ok := s.pets[id]
	if !ok {
		return nil, ErrPetNotFound
	}
	return pet, nil
}

func (s *MemoryPetService) Update(ctx context.Context, ownerID, id string, req *models.UpdatePetRequest) (*models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.pets[id]
	if !ok {
		return nil, ErrPetNotFound
	}
	if pet.OwnerID != ownerID {
		return nil, ErrNotPetOwner
	}

	applyPetUpdate(pet, req)
	pet.UpdatedAt = time.Now()
	s.snapshot()
	return pet, nil
}

func (s *MemoryPetService) Delete(ctx context.Context, ownerID, id string) (*models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.pets[id]
	if !ok {
		return nil, ErrPetNotFound
	}
	if pet.OwnerID != ownerID {
		return nil, ErrNotPetOwner
	}

	delete(s.pets, id)
	s.snapshot()
	return pet, nil
}

func (s *MemoryPetService) List(ctx context.Context, q *models.ListPetsQuery) ([]*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Pet, 0)
	for _, p := range s.pets {
		if q != nil {
			if q.Species != "" && p.Species != q.Species {
				continue
			}
			if q.Breed != "" && p.Breed != q.Breed {
				continue
			}
			if q.MaxAge > 0 && p.Age > q.MaxAge {
				continue
			}
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := defaultPetListLimit
	if q != nil && q.Limit > 0 {
		limit = q.Limit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryPetService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Pet, 0)
	for _, p := range s.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryPetService) ListNearby(ctx context.Context, lat, lng, radiusM float64) ([]*models.Pet, error) {
	if radiusM <= 0 {
		return nil, ErrPetBadInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type petDist struct {
		pet *models.Pet
		d   float64
	}
	found := make([]petDist, 0)
	for _, p := range s.pets {
		if p.IsAdopted || (p.Latitude == 0 && p.Longitude == 0) {
			continue
		}
		d := HaversineM(lat, lng, p.Latitude, p.Longitude)
		if d <= radiusM {
			found = append(found, petDist{p, d})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].d < found[j].d })

	out := make([]*models.Pet, 0, len(found))
	for _, f := range found {
		out = append(out, f.pet)
	}
	return out, nil
}

func applyPetUpdate(pet *models.Pet, req *models.UpdatePetRequest) {
	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.Age != nil {
		pet.Age = *req.Age
	}
	if req.Gender != nil {
		pet.Gender = *req.Gender
	}
	if req.Price != nil {
		pet.Price = *req.Price
	}
	if req.Description != nil {
		pet.Description = *req.Description
	}
	if req.ImageURLs != nil {
		pet.ImageURLs = *req.ImageURLs
	}
	if req.Address != nil {
		pet.Address = *req.Address
	}
	if req.Latitude != nil {
		pet.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		pet.Longitude = *req.Longitude
	}
	if req.IsAdopted != nil {
		pet.IsAdopted = *req.IsAdopted
	}
}
