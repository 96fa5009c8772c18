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
	ErrStoryNotFound = errors.New("story not found")
	ErrNotStoryOwner = errors.New("not the owner of this story")
	ErrStoryBadInput = errors.New("invalid story input")
)

// StoryService manages owner-authored posts on the community feed.
type StoryService interface {
	Create(ctx context.Context, ownerID string, req *models.CreateStoryRequest) (*models.Story, error)
	GetByID(ctx context.Context, id string) (*models.Story, error)
	List(ctx context.Context, limit int) ([]*models.Story, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Story, error)
	Delete(ctx context.Context, ownerID, id string) error
}

const defaultStoryListLimit = 50

type MemoryStoryService struct {
	mu      sync.RWMutex
	stories map[string]*models.Story
}

func NewMemoryStoryService() *MemoryStoryService {
	return &MemoryStoryService{stories: make(map[string]*models.Story)}
}

func (s *MemoryStoryService) Create(ctx context.Context, ownerID string, req *models.CreateStoryRequest) (*models.Story, error) {
	if ownerID == "" {
		return nil, ErrStoryBadInput
	}

	now := time.Now()
	story := &models.Story{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.stories[story.ID] = story
	s.mu.Unlock()

	return story, nil
}

func (s *MemoryStoryService) GetByID(ctx context.Context, id string) (*models.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	story, ok := s.stories[id]
	if !ok {
		return nil, ErrStoryNotFound
	}
	return story, nil
}

func (s *MemoryStoryService) List(ctx context.Context, limit int) ([]*models.Story, error) {
	s.mu.RLock()
	out := make([]*models.Story, 0, len(s.stories))
	for _, st := range s.stories {
		out = append(out, st)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit <= 0 {
		limit = defaultStoryListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStoryService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Story, error) {
	s.mu.RLock()
	out := make([]*models.Story, 0)
	for _, st := range s.stories {
		if st.OwnerID == ownerID {
			out = append(out, st)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStoryService) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	story, ok := s.stories[id]
	if !ok {
		return ErrStoryNotFound
	}
	if story.OwnerID != ownerID {
		return ErrNotStoryOwner
	}
	delete(s.stories, id)
	return nil
}
