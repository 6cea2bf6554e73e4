package reviews

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// RatingApplier учитывает новую оценку в рейтинге профиля
type RatingApplier interface {
	ApplyRating(ctx context.Context, id uuid.UUID, rating int) (*models.UserProfile, error)
}

// MemoryStore хранит отзывы в памяти
type MemoryStore struct {
	mu        sync.RWMutex
	profiles  RatingApplier
	feedback  []models.Feedback
	byRequest map[uuid.UUID]struct{}
}

// NewMemoryStore создает пустое хранилище отзывов, которое обновляет рейтинг через profiles
func NewMemoryStore(profiles RatingApplier) *MemoryStore {
	return &MemoryStore{
		profiles:  profiles,
		byRequest: make(map[uuid.UUID]struct{}),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, fb models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byRequest[fb.SwapRequestID]; ok {
		return ErrAlreadyReviewed
	}
	// Отзыв записывается только после успешного обновления рейтинга
	if _, err := s.profiles.ApplyRating(ctx, fb.SubjectID, fb.Rating); err != nil {
		return fmt.Errorf("ошибка обновления рейтинга: %w", err)
	}
	s.byRequest[fb.SwapRequestID] = struct{}{}
	s.feedback = append(s.feedback, fb)
	return nil
}

func (s *MemoryStore) ForSubject(ctx context.Context, subjectID uuid.UUID) ([]models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Feedback
	for i := len(s.feedback) - 1; i >= 0; i-- {
		if s.feedback[i].SubjectID == subjectID {
			out = append(out, s.feedback[i])
		}
	}
	return out, nil
}
