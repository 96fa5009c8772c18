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
	ErrProfileNotFound = errors.New("dating profile not found")
	ErrProfileExists   = errors.New("dating profile already exists for this user")
	ErrSelfAction      = errors.New("cannot like or pass your own profile")
	ErrDatingBadInput  = errors.New("invalid dating input")
)

const nearbyProfileLimit = 20

// DatingService is the profile store plus the reciprocity engine. Like and
// Pass key actors by their auth UID and targets by dating-profile ID.
type DatingService interface {
	Create(ctx context.Context, ownerID string, req *models.CreateDatingProfileRequest) (*models.DatingProfile, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.DatingProfile, error)
	GetByID(ctx context.Context, profileID string) (*models.DatingProfile, error)
	Update(ctx context.Context, ownerID string, req *models.UpdateDatingProfileRequest) (*models.DatingProfile, error)
	Delete(ctx context.Context, ownerID string) error
	Like(ctx context.Context, actorID, targetProfileID string) (bool, error)
	Pass(ctx context.Context, actorID, targetProfileID string) error
	ToggleActive(ctx context.Context, actorID string) (*models.DatingProfile, error)
	Nearby(ctx context.Context, q *models.NearbyProfilesQuery) ([]*models.NearbyProfile, error)
	ListMatchedProfiles(ctx context.Context, ownerID string) ([]*models.DatingProfile, error)
}

// MemoryDatingService keeps profiles in maps, optionally snapshotted to disk.
type MemoryDatingService struct {
	mu       sync.RWMutex
	profiles map[string]*models.DatingProfile // profileID -> profile
	byOwner  map[string]string                // ownerID -> profileID
	store    *storage.JSONStore
}

// NewMemoryDatingService loads any previous snapshot from store (nil disables
// persistence).
func NewMemoryDatingService(store *storage.JSONStore) *MemoryDatingService {
	s := &MemoryDatingService{
		profiles: make(map[string]*models.DatingProfile),
		byOwner:  make(map[string]string),
		store:    store,
	}
	if store != nil {
		var saved []*models.DatingProfile
		if err := store.Load(&saved); err == nil {
			for _, p := range saved {
				s.profiles[p.ID] = p
				s.byOwner[p.OwnerID] = p.ID
			}
		}
	}
	return s
}

func (s *MemoryDatingService) snapshot() {
	if s.store == nil {
		return
	}
	all := make([]*models.DatingProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		all = append(all, p)
	}
	_ = s.store.Save(all)
}

func (s *MemoryDatingService) Create(ctx context.Context, ownerID string, req *models.CreateDatingProfileRequest) (*models.DatingProfile, error) {
	if ownerID == "" {
		return nil, ErrDatingBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byOwner[ownerID]; exists {
		return nil, ErrProfileExists
	}

	now := time.Now()
	prof := &models.DatingProfile{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		PetName:       req.PetName,
		Age:           req.Age,
		Gender:        req.Gender,
		Bio:           req.Bio,
		Location:      req.Location,
		ImageURLs:     req.ImageURLs,
		Likes:         []string{},
		Passes:        []string{},
		Matches:       []string{},
		IsOwnerDating: true,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Latitude != nil && req.Longitude != nil {
		prof.Geo = models.NewGeoPoint(*req.Latitude, *req.Longitude)
	}

	s.profiles[prof.ID] = prof
	s.byOwner[ownerID] = prof.ID
	s.snapshot()

	return prof, nil
}

func (s *MemoryDatingService) GetByOwner(ctx context.Context, ownerID string) (*models.DatingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byOwner[ownerID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return s.profiles[id], nil
}

func (s *MemoryDatingService) GetByID(ctx context.Context, profileID string) (*models.DatingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prof, ok := s.profiles[profileID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return prof, nil
}

func (s *MemoryDatingService) Update(ctx context.Context, ownerID string, req *models.UpdateDatingProfileRequest) (*models.DatingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byOwner[ownerID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	prof := s.profiles[id]

	if req.PetName != nil {
		prof.PetName = *req.PetName
	}
	if req.Age != nil {
		prof.Age = *req.Age
	}
	if req.Gender != nil {
		prof.Gender = *req.Gender
	}
	if req.Bio != nil {
		prof.Bio = *req.Bio
	}
	if req.Location != nil {
		prof.Location = *req.Location
	}
	if req.ImageURLs != nil {
		prof.ImageURLs = *req.ImageURLs
	}
	if req.Latitude != nil && req.Longitude != nil {
		prof.Geo = models.NewGeoPoint(*req.Latitude, *req.Longitude)
	}
	prof.UpdatedAt = time.Now()
	s.snapshot()

	return prof, nil
}

func (s *MemoryDatingService) Delete(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byOwner[ownerID]
	if !ok {
		return ErrProfileNotFound
	}
	delete(s.profiles, id)
	delete(s.byOwner, ownerID)
	s.snapshot()
	return nil
}

// Like appends the target to the actor's likes (idempotent) and records a
// mutual match when the target already liked the actor back.
func (s *MemoryDatingService) Like(ctx context.Context, actorID, targetProfileID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actorProfileID, ok := s.byOwner[actorID]
	if !ok {
		return false, ErrProfileNotFound
	}
	actor := s.profiles[actorProfileID]

	target, ok := s.profiles[targetProfileID]
	if !ok {
		return false, ErrProfileNotFound
	}
	if target.ID == actor.ID {
		return false, ErrSelfAction
	}

	now := time.Now()
	if appendUnique(&actor.Likes, target.ID) {
		actor.UpdatedAt = now
	}

	matched := containsString(target.Likes, actor.ID)
	if matched {
		if appendUnique(&actor.Matches, target.ID) {
			actor.UpdatedAt = now
		}
		if appendUnique(&target.Matches, actor.ID) {
			target.UpdatedAt = now
		}
	}
	s.snapshot()

	return matched, nil
}

func (s *MemoryDatingService) Pass(ctx context.Context, actorID, targetProfileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actorProfileID, ok := s.byOwner[actorID]
	if !ok {
		return ErrProfileNotFound
	}
	actor := s.profiles[actorProfileID]

	target, ok := s.profiles[targetProfileID]
	if !ok {
		return ErrProfileNotFound
	}
	if target.ID == actor.ID {
		return ErrSelfAction
	}

	if appendUnique(&actor.Passes, target.ID) {
		actor.UpdatedAt = time.Now()
		s.snapshot()
	}
	return nil
}

func (s *MemoryDatingService) ToggleActive(ctx context.Context, actorID string) (*models.DatingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byOwner[actorID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	prof := s.profiles[id]
	prof.IsActive = !prof.IsActive
	prof.UpdatedAt = time.Now()
	s.snapshot()
	return prof, nil
}

func (s *MemoryDatingService) Nearby(ctx context.Context, q *models.NearbyProfilesQuery) ([]*models.NearbyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.NearbyProfile, 0)
	for _, p := range s.profiles {
		if !p.IsOwnerDating || !p.IsActive || p.Geo == nil {
			continue
		}
		if !matchesNearbyFilters(p, q) {
			continue
		}
		d := HaversineM(q.Latitude, q.Longitude, p.Geo.Lat(), p.Geo.Lng())
		if d > q.RadiusM {
			continue
		}
		results = append(results, &models.NearbyProfile{Profile: p, DistanceM: d})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceM < results[j].DistanceM
	})
	if len(results) > nearbyProfileLimit {
		results = results[:nearbyProfileLimit]
	}
	return results, nil
}

func (s *MemoryDatingService) ListMatchedProfiles(ctx context.Context, ownerID string) ([]*models.DatingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byOwner[ownerID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	prof := s.profiles[id]

	out := make([]*models.DatingProfile, 0, len(prof.Matches))
	for _, mid := range prof.Matches {
		if m, ok := s.profiles[mid]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// removeReferences strips a deleted profile's id out of every remaining
// profile's likes, passes, and matches lists.
func (s *MemoryDatingService) removeReferences(profileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, p := range s.profiles {
		if removeString(&p.Likes, profileID) {
			changed = true
		}
		if removeString(&p.Passes, profileID) {
			changed = true
		}
		if removeString(&p.Matches, profileID) {
			changed = true
		}
	}
	if changed {
		s.snapshot()
	}
}

func matchesNearbyFilters(p *models.DatingProfile, q *models.NearbyProfilesQuery) bool {
	if q.Gender != "" && p.Gender != q.Gender {
		return false
	}
	if q.MinAge > 0 && p.Age < q.MinAge {
		return false
	}
	if q.MaxAge > 0 && p.Age > q.MaxAge {
		return false
	}
	return true
}

func appendUnique(list *[]string, v string) bool {
	if containsString(*list, v) {
		return false
	}
	*list = append(*list, v)
	return true
}

func removeString(list *[]string, v string) bool {
	for i, s := range *list {
		if s == v {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
