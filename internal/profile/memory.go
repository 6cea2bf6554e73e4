package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// MemoryStore хранит профили в памяти в порядке создания
type MemoryStore struct {
	mu       sync.RWMutex
	order    []uuid.UUID
	profiles map[uuid.UUID]models.UserProfile
	now      func() time.Time
}

// NewMemoryStore создает пустое хранилище профилей
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[uuid.UUID]models.UserProfile),
		now:      time.Now,
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.UserProfile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.profiles[id]))
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = clone(p)
	return &p, nil
}

func (s *MemoryStore) GetByTelegramID(ctx context.Context, telegramID int64) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if p := s.profiles[id]; p.TelegramID != 0 && p.TelegramID == telegramID {
			p = clone(p)
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Create(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, exists := s.profiles[p.ID]; exists {
		return nil, ErrAlreadyExists
	}
	if p.TelegramID != 0 {
		for _, other := range s.profiles {
			if other.TelegramID == p.TelegramID {
				return nil, ErrAlreadyExists
			}
		}
	}

	p.Normalize()
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	s.profiles[p.ID] = clone(p)
	s.order = append(s.order, p.ID)
	return &p, nil
}

func (s *MemoryStore) Update(ctx context.Context, id uuid.UUID, edit Edit) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = clone(p)
	edit.Apply(&p)
	p.UpdatedAt = s.now()

	s.profiles[id] = clone(p)
	return &p, nil
}

func (s *MemoryStore) ApplyRating(ctx context.Context, id uuid.UUID, rating int) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = clone(p)
	AddRating(&p, rating)
	p.UpdatedAt = s.now()

	s.profiles[id] = clone(p)
	return &p, nil
}

// clone копирует срезы навыков, чтобы вызывающий код не мог изменить хранилище
func clone(p models.UserProfile) models.UserProfile {
	p.SkillsOffered = append(make([]string, 0, len(p.SkillsOffered)), p.SkillsOffered...)
	p.SkillsWanted = append(make([]string, 0, len(p.SkillsWanted)), p.SkillsWanted...)
	return p
}
