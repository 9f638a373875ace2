package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"satinsights-backend/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// MemorySessionStore keeps sessions in process memory. Expired sessions
// are invisible immediately and swept periodically.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Session
	ttl      time.Duration
	now      func() time.Time
	stopChan chan struct{}
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]*models.Session),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// StartSweeper removes expired sessions every interval until Close.
func (r *MemorySessionStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stopChan:
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *MemorySessionStore) Close() {
	close(r.stopChan)
}

func (r *MemorySessionStore) sweep() {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, id)
		}
	}
}

func (r *MemorySessionStore) Create(ctx context.Context) (*models.Session, error) {
	now := r.now()
	s := &models.Session{
		ID:        uuid.New(),
		Messages:  []models.ChatMessage{},
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s.Clone()
	return s, nil
}

func (r *MemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok || !r.now().Before(s.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Save replaces the stored transcript. The expiry set at creation is kept.
func (r *MemorySessionStore) Save(ctx context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sessions[s.ID]
	if !ok || !r.now().Before(existing.ExpiresAt) {
		return ErrSessionNotFound
	}

	saved := s.Clone()
	saved.CreatedAt = existing.CreatedAt
	saved.ExpiresAt = existing.ExpiresAt
	r.sessions[s.ID] = saved
	return nil
}

func (r *MemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}
