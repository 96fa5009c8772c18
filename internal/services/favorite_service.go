package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrFavoriteBadInput = errors.New("invalid favorite input")
)

// PetLookup is the slice of PetService the favorites list needs to
// enrich its entries.
type PetLookup interface {
	GetByID(ctx context.Context, id string) (*models.Pet, error)
}

// FavoriteService tracks which adoption listings a user has saved.
// Add is idempotent: saving an already-saved pet is a no-op.
type FavoriteService interface {
	Add(ctx context.Context, userID, petID string) (*models.Favorite, error)
	Remove(ctx context.Context, userID, petID string) error
	ListFor(ctx context.Context, userID string) ([]*models.FavoriteWithPet, error)
	IsFavorite(ctx context.Context, userID, petID string) (bool, error)
}

type MemoryFavoriteService struct {
	mu     sync.RWMutex
	byUser map[string]map[string]*models.Favorite // userID -> petID -> favorite
	pets   PetLookup
}

func NewMemoryFavoriteService(pets PetLookup) *MemoryFavoriteService {
	return &MemoryFavoriteService{
		byUser: make(map[string]map[string]*models.Favorite),
		pets:   pets,
	}
}

func (s *MemoryFavoriteService) Add(ctx context.Context, userID, petID string) (*models.Favorite, error) {
	if userID == "" || petID == "" {
		return nil, ErrFavoriteBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byUser[userID] == nil {
		s.byUser[userID] = make(map[string]*models.Favorite)
	}
	if existing, ok := s.byUser[userID][petID]; ok {
		return existing, nil
	}

	fav := &models.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		PetID:     petID,
		CreatedAt: time.Now(),
	}
	s.byUser[userID][petID] = fav
	return fav, nil
}

func (s *MemoryFavoriteService) Remove(ctx context.Context, userID, petID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUser[userID][petID]; !ok {
		return ErrFavoriteNotFound
	}
	delete(s.byUser[userID], petID)
	return nil
}

func (s *MemoryFavoriteService) ListFor(ctx context.Context, userID string) ([]*models.FavoriteWithPet, error) {
	s.mu.RLock()
	favs := make([]*models.Favorite, 0, len(s.byUser[userID]))
	for _, f := range s.byUser[userID] {
		favs = append(favs, f)
	}
	s.mu.RUnlock()

	sort.Slice(favs, func(i, j int) bool {
		return favs[i].CreatedAt.After(favs[j].CreatedAt)
	})

	return enrichFavorites(ctx, favs, s.pets), nil
}

// removeAllFor drops every favorite the user saved.
func (s *MemoryFavoriteService) removeAllFor(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}

func (s *MemoryFavoriteService) IsFavorite(ctx context.Context, userID, petID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byUser[userID][petID]
	return ok, nil
}

// enrichFavorites attaches the pet record to each favorite. Favorites
// whose pet has since been deleted are skipped rather than surfaced as
// half-empty entries.
func enrichFavorites(ctx context.Context, favs []*models.Favorite, pets PetLookup) []*models.FavoriteWithPet {
	out := make([]*models.FavoriteWithPet, 0, len(favs))
	for _, f := range favs {
		if pets == nil {
			out = append(out, &models.FavoriteWithPet{Favorite: *f})
			continue
		}
		pet, err := pets.GetByID(ctx, f.PetID)
		if err != nil {
			continue
		}
		out = append(out, &models.FavoriteWithPet{Favorite: *f, Pet: *pet})
	}
	return out
}
