package storage

import (
	"context"
	"sync"
	"time"

	"github.com/swasthyasaathi/bot/internal/models"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[string]*models.User // keyed by WhatsApp id
	children map[int64]*models.Child // keyed by owning user id
	outbox   map[string]*models.OutboundMessage
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:    make(map[string]*models.User),
		children: make(map[int64]*models.Child),
		outbox:   make(map[string]*models.OutboundMessage),
	}
}

func (s *MemoryStorage) GetUserByWaID(ctx context.Context, waUserID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[waUserID]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.WaUserID] = &copied
	return nil
}

func (s *MemoryStorage) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.WaUserID]; !exists {
		return ErrNotFound
	}
	copied := *user
	s.users[user.WaUserID] = &copied
	return nil
}

func (s *MemoryStorage) GetChild(ctx context.Context, userID int64) (*models.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	child, exists := s.children[userID]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *child
	return &copied, nil
}

func (s *MemoryStorage) UpsertChild(ctx context.Context, userID int64, dob time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if child, exists := s.children[userID]; exists {
		child.DOB = dob
		return nil
	}
	s.nextID++
	s.children[userID] = &models.Child{
		ID:     s.nextID,
		UserID: userID,
		DOB:    dob,
	}
	return nil
}

func (s *MemoryStorage) ListConsentedByPincode(ctx context.Context, pincode string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []*models.User
	for _, u := range s.users {
		if u.Consent && u.Pincode == pincode {
			copied := *u
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (s *MemoryStorage) AppendOutbox(ctx context.Context, msg *models.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.CreatedAt = time.Now()
	copied := *msg
	s.outbox[msg.ID] = &copied
	return nil
}

func (s *MemoryStorage) MarkDelivered(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, exists := s.outbox[id]
	if !exists {
		return ErrNotFound
	}
	now := time.Now()
	msg.DeliveredAt = &now
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
