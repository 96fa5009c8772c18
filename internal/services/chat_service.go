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
	ErrMessageNotFound = errors.New("message not found")
	ErrNotMessageOwner = errors.New("only the sender can delete a message")
	ErrChatBadInput    = errors.New("invalid chat input")
)

// ChatService is the ordered message log between identity pairs. Messages
// key by raw auth identity, not dating-profile id: a conversation can exist
// with a counterpart that never created a dating profile.
type ChatService interface {
	Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.ChatMessage, error)
	History(ctx context.Context, idA, idB string) ([]*models.ChatMessage, error)
	MarkRead(ctx context.Context, senderID, receiverID string) (int64, error)
	Delete(ctx context.Context, actorID, messageID string) error
	ConversationsFor(ctx context.Context, id string) ([]*models.Conversation, error)
}

// MemoryChatService stores messages in a slice ordered by insertion.
type MemoryChatService struct {
	mu       sync.RWMutex
	messages []*models.ChatMessage
	users    UserDirectory
	store    *storage.JSONStore
}

func NewMemoryChatService(users UserDirectory, store *storage.JSONStore) *MemoryChatService {
	s := &MemoryChatService{
		messages: make([]*models.ChatMessage, 0),
		users:    users,
		store:    store,
	}
	if store != nil {
		var saved []*models.ChatMessage
		if err := store.Load(&saved); err == nil && saved != nil {
			s.messages = saved
		}
	}
	return s
}

func (s *MemoryChatService) snapshot() {
	if s.store != nil {
		_ = s.store.Save(s.messages)
	}
}

func (s *MemoryChatService) Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.ChatMessage, error) {
	if senderID == "" || req.ReceiverID == "" || req.Body == "" {
		return nil, ErrChatBadInput
	}

	now := time.Now()
	msg := &models.ChatMessage{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       req.Body,
		MediaURL:   req.MediaURL,
		MediaType:  req.MediaType,
		IsRead:     false,
		IsDeleted:  false,
		IsSent:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.snapshot()
	s.mu.Unlock()

	return msg, nil
}

func (s *MemoryChatService) History(ctx context.Context, idA, idB string) ([]*models.ChatMessage, error) {
	if idA == "" || idB == "" {
		return nil, ErrChatBadInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ChatMessage, 0)
	for _, m := range s.messages {
		if m.IsDeleted {
			continue
		}
		if (m.SenderID == idA && m.ReceiverID == idB) || (m.SenderID == idB && m.ReceiverID == idA) {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryChatService) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	if senderID == "" || receiverID == "" {
		return 0, ErrChatBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := time.Now()
	for _, m := range s.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			m.UpdatedAt = now
			n++
		}
	}
	if n > 0 {
		s.snapshot()
	}
	return n, nil
}

func (s *MemoryChatService) Delete(ctx context.Context, actorID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		if m.ID != messageID {
			continue
		}
		if m.SenderID != actorID {
			return ErrNotMessageOwner
		}
		m.IsDeleted = true
		m.UpdatedAt = time.Now()
		s.snapshot()
		return nil
	}
	return ErrMessageNotFound
}

// softDeleteFor hides every message the identity sent or received without
// removing the records.
func (s *MemoryChatService) softDeleteFor(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	now := time.Now()
	for _, m := range s.messages {
		if (m.SenderID == id || m.ReceiverID == id) && !m.IsDeleted {
			m.IsDeleted = true
			m.UpdatedAt = now
			changed = true
		}
	}
	if changed {
		s.snapshot()
	}
}

func (s *MemoryChatService) ConversationsFor(ctx context.Context, id string) ([]*models.Conversation, error) {
	if id == "" {
		return nil, ErrChatBadInput
	}

	s.mu.RLock()
	involved := make([]*models.ChatMessage, 0)
	for _, m := range s.messages {
		if m.IsDeleted {
			continue
		}
		if m.SenderID == id || m.ReceiverID == id {
			involved = append(involved, m)
		}
	}
	s.mu.RUnlock()

	return buildConversations(ctx, id, involved, s.users), nil
}

// buildConversations groups a flat message list by counterpart, keeping the
// most recent message and an unread count per counterpart. Partner metadata
// comes from the directory; lookup failures just leave it blank.
func buildConversations(ctx context.Context, id string, msgs []*models.ChatMessage, users UserDirectory) []*models.Conversation {
	byPartner := make(map[string]*models.Conversation)
	for _, m := range msgs {
		partner := m.SenderID
		if partner == id {
			partner = m.ReceiverID
		}

		conv, ok := byPartner[partner]
		if !ok {
			conv = &models.Conversation{PartnerID: partner}
			byPartner[partner] = conv
		}
		if m.CreatedAt.After(conv.LastMessageAt) || conv.LastMessage == "" {
			conv.LastMessage = m.Body
			conv.LastMessageAt = m.CreatedAt
		}
		if m.ReceiverID == id && !m.IsRead {
			conv.UnreadCount++
		}
	}

	out := make([]*models.Conversation, 0, len(byPartner))
	for partner, conv := range byPartner {
		if users != nil {
			if u, err := users.GetByID(ctx, partner); err == nil {
				conv.PartnerName = u.Name
				conv.PartnerPicture = u.Picture
			}
		}
		out = append(out, conv)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}
