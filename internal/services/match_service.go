package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/pairs"
	"github.com/nikhil-rathour/TailMate-sub001/internal/storage"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchBadInput = errors.New("invalid match input")
)

// MatchService is the registry of symmetric user-to-user match records,
// idempotent on the unordered pair.
type MatchService interface {
	Create(ctx context.Context, idA, idB string) (*models.Match, error)
	ListFor(ctx context.Context, id string) ([]*models.MatchWithUser, error)
	Delete(ctx context.Context, idA, idB string) error
}

// UserDirectory resolves an identity to its directory record. The match
// registry uses it to enrich records with counterpart metadata.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ProfileResolver is the dating-profile fallback for counterpart ids that
// turn out to be profile ids rather than auth UIDs.
type ProfileResolver interface {
	GetByID(ctx context.Context, profileID string) (*models.DatingProfile, error)
}

// resolveCounterpart looks the id up in the directory first; failing that it
// treats the id as a dating-profile id and follows the owner reference. A
// counterpart that resolves nowhere yields a placeholder rather than an
// error, so one orphaned record never fails a whole listing.
func resolveCounterpart(ctx context.Context, users UserDirectory, profiles ProfileResolver, id string) models.PublicUser {
	if users != nil {
		if u, err := users.GetByID(ctx, id); err == nil {
			return models.PublicUser{UserID: u.UserID, Email: u.Email, Name: u.Name, Picture: u.Picture}
		}
	}
	if profiles != nil && users != nil {
		if p, err := profiles.GetByID(ctx, id); err == nil {
			if u, err := users.GetByID(ctx, p.OwnerID); err == nil {
				return models.PublicUser{UserID: u.UserID, Email: u.Email, Name: u.Name, Picture: u.Picture}
			}
		}
	}
	return models.PublicUser{UserID: id, Name: "Unknown"}
}

// MemoryMatchService keys records by canonical pair key.
type MemoryMatchService struct {
	mu       sync.RWMutex
	byPair   map[string]*models.Match
	users    UserDirectory
	profiles ProfileResolver
	store    *storage.JSONStore
}

func NewMemoryMatchService(users UserDirectory, profiles ProfileResolver, store *storage.JSONStore) *MemoryMatchService {
	s := &MemoryMatchService{
		byPair:   make(map[string]*models.Match),
		users:    users,
		profiles: profiles,
		store:    store,
	}
	if store != nil {
		var saved []*models.Match
		if err := store.Load(&saved); err == nil {
			for _, m := range saved {
				s.byPair[m.PairKey] = m
			}
		}
	}
	return s
}

func (s *MemoryMatchService) snapshot() {
	if s.store == nil {
		return
	}
	all := make([]*models.Match, 0, len(s.byPair))
	for _, m := range s.byPair {
		all = append(all, m)
	}
	_ = s.store.Save(all)
}

func (s *MemoryMatchService) Create(ctx context.Context, idA, idB string) (*models.Match, error) {
	if idA == "" || idB == "" || idA == idB {
		return nil, ErrMatchBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairs.Key(idA, idB)
	if existing, ok := s.byPair[key]; ok {
		return existing, nil
	}

	lo, hi := pairs.Canonical(idA, idB)
	now := time.Now()
	m := &models.Match{
		ID:        uuid.New().String(),
		PairKey:   key,
		UserA:     lo,
		UserB:     hi,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.byPair[key] = m
	s.snapshot()
	return m, nil
}

func (s *MemoryMatchService) ListFor(ctx context.Context, id string) ([]*models.MatchWithUser, error) {
	if id == "" {
		return nil, ErrMatchBadInput
	}

	s.mu.RLock()
	matches := make([]*models.Match, 0)
	for _, m := range s.byPair {
		if m.UserA == id || m.UserB == id {
			matches = append(matches, m)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	out := make([]*models.MatchWithUser, 0, len(matches))
	for _, m := range matches {
		out = append(out, &models.MatchWithUser{
			Match:   *m,
			Partner: resolveCounterpart(ctx, s.users, s.profiles, m.Counterpart(id)),
		})
	}
	return out, nil
}

// removeAllFor drops every match record touching the given identity.
func (s *MemoryMatchService) removeAllFor(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for key, m := range s.byPair {
		if m.UserA == id || m.UserB == id {
			delete(s.byPair, key)
			removed = true
		}
	}
	if removed {
		s.snapshot()
	}
}

func (s *MemoryMatchService) Delete(ctx context.Context, idA, idB string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairs.Key(idA, idB)
	if _, ok := s.byPair[key]; !ok {
		return nil
	}
	delete(s.byPair, key)
	s.snapshot()
	return nil
}
