package services

import (
	"context"
	"errors"
	"log"
)

var ErrAccountBadInput = errors.New("invalid account input")

// AccountService removes every trace of a user across collections and
// reports the media URLs that were attached to the deleted records so the
// caller can clean up blob storage.
type AccountService interface {
	DeleteAccount(ctx context.Context, userID string) ([]string, error)
}

// MemoryAccountService cascades a deletion through the in-memory services,
// mirroring what the Mongo implementation does collection by collection.
type MemoryAccountService struct {
	users     *MemoryUserService
	pets      *MemoryPetService
	dating    *MemoryDatingService
	matches   *MemoryMatchService
	chat      *MemoryChatService
	favorites *MemoryFavoriteService
	stories   *MemoryStoryService
	flags     *MemoryFlagService
}

func NewMemoryAccountService(
	users *MemoryUserService,
	pets *MemoryPetService,
	dating *MemoryDatingService,
	matches *MemoryMatchService,
	chat *MemoryChatService,
	favorites *MemoryFavoriteService,
	stories *MemoryStoryService,
	flags *MemoryFlagService,
) *MemoryAccountService {
	return &MemoryAccountService{
		users:     users,
		pets:      pets,
		dating:    dating,
		matches:   matches,
		chat:      chat,
		favorites: favorites,
		stories:   stories,
		flags:     flags,
	}
}

// DeleteAccount walks the user's footprint service by service. Messages
// are soft-deleted so counterpart history stays coherent; everything else
// is removed outright.
func (s *MemoryAccountService) DeleteAccount(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrAccountBadInput
	}

	mediaURLs := make([]string, 0)

	owned, _ := s.pets.ListByOwner(ctx, userID)
	for _, p := range owned {
		mediaURLs = append(mediaURLs, p.ImageURLs...)
		_, _ = s.pets.Delete(ctx, userID, p.ID)
	}

	if prof, err := s.dating.GetByOwner(ctx, userID); err == nil {
		mediaURLs = append(mediaURLs, prof.ImageURLs...)
		_ = s.dating.Delete(ctx, userID)
		// Other profiles may still reference this one in their lists.
		s.dating.removeReferences(prof.ID)
	}

	stories, _ := s.stories.ListByOwner(ctx, userID)
	for _, st := range stories {
		if st.ImageURL != "" {
			mediaURLs = append(mediaURLs, st.ImageURL)
		}
		_ = s.stories.Delete(ctx, userID, st.ID)
	}

	s.matches.removeAllFor(userID)
	s.chat.softDeleteFor(userID)
	s.favorites.removeAllFor(userID)
	s.flags.remove(userID)
	s.users.remove(userID)

	log.Printf("[AccountService] deleted account %s (%d media files to clean)", userID, len(mediaURLs))
	return mediaURLs, nil
}
