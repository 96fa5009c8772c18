package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/storage"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserBadInput    = errors.New("invalid user input")
)

// UserService is the identity directory: one record per verified auth UID.
// Register/Login back the local-auth path used when Firebase is not
// configured; GetOrCreate backs the Firebase path, materializing a directory
// record on first request.
type UserService interface {
	GetOrCreate(ctx context.Context, uid, email, name, picture string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, uid string, req *models.UpsertUserRequest) (*models.User, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
}

// MemoryUserService keeps the directory in maps.
type MemoryUserService struct {
	mu      sync.RWMutex
	users   map[string]*models.User // uid -> user
	byEmail map[string]string       // email -> uid
	store   *storage.JSONStore
}

func NewMemoryUserService(store *storage.JSONStore) *MemoryUserService {
	s := &MemoryUserService{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		store:   store,
	}
	if store != nil {
		var saved []*models.User
		if err := store.Load(&saved); err == nil {
			for _, u := range saved {
				s.users[u.UserID] = u
				if u.Email != "" {
					s.byEmail[u.Email] = u.UserID
				}
			}
		}
	}
	return s
}

func (s *MemoryUserService) snapshot() {
	if s.store == nil {
		return
	}
	all := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	_ = s.store.Save(all)
}

func (s *MemoryUserService) GetOrCreate(ctx context.Context, uid, email, name, picture string) (*models.User, error) {
	if uid == "" {
		return nil, ErrUserBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[uid]; ok {
		changed := false
		if email != "" && u.Email == "" {
			u.Email = email
			s.byEmail[email] = uid
			changed = true
		}
		if name != "" && u.Name == "" {
			u.Name = name
			changed = true
		}
		if picture != "" && u.Picture == "" {
			u.Picture = picture
			changed = true
		}
		if changed {
			u.UpdatedAt = time.Now()
			s.snapshot()
		}
		return u, nil
	}

	now := time.Now()
	u := &models.User{
		UserID:    uid,
		Email:     email,
		Name:      name,
		Picture:   picture,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[uid] = u
	if email != "" {
		s.byEmail[email] = uid
	}
	s.snapshot()
	return u, nil
}

// remove drops the directory record and its email index entry.
func (s *MemoryUserService) remove(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return
	}
	if u.Email != "" {
		delete(s.byEmail, u.Email)
	}
	delete(s.users, uid)
	s.snapshot()
}

func (s *MemoryUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uid, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.users[uid], nil
}

func (s *MemoryUserService) Upsert(ctx context.Context, uid string, req *models.UpsertUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.Picture != nil {
		u.Picture = *req.Picture
	}
	u.UpdatedAt = time.Now()
	s.snapshot()
	return u, nil
}

func (s *MemoryUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &models.User{
		UserID:       newUserID(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.UserID] = u
	s.byEmail[u.Email] = u.UserID
	s.snapshot()
	return u, nil
}

func (s *MemoryUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uid, exists := s.byEmail[req.Email]
	if !exists {
		return nil, ErrUserNotFound
	}

	u := s.users[uid]
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return u, nil
}
