// Package reviews принимает отзывы по принятым обменам и обновляет рейтинг участника.
package reviews

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// MaxCommentLength - максимальная длина комментария в символах
const MaxCommentLength = 1000

var (
	ErrNotAccepted     = errors.New("отзыв можно оставить только по принятому обмену")
	ErrInvalidRating   = errors.New("оценка должна быть от 1 до 5")
	ErrCommentTooLong  = errors.New("комментарий слишком длинный")
	ErrAlreadyReviewed = errors.New("отзыв по этому обмену уже оставлен")
)

// Store хранит отзывы.
// Insert сохраняет отзыв и учитывает оценку в рейтинге SubjectID за одну операцию:
// если рейтинг не обновился, отзыв не сохраняется. Повторный отзыв по обмену даёт ErrAlreadyReviewed.
type Store interface {
	Insert(ctx context.Context, fb models.Feedback) error
	// ForSubject возвращает отзывы о пользователе, новые первыми
	ForSubject(ctx context.Context, subjectID uuid.UUID) ([]models.Feedback, error)
}

// SwapGetter отдает предложение обмена его участнику
type SwapGetter interface {
	Get(ctx context.Context, requestID, viewerID uuid.UUID) (*models.SwapView, error)
}

// Service работает с отзывами
type Service struct {
	store Store
	swaps SwapGetter
	mu    sync.Mutex
	now   func() time.Time
}

// NewService создает сервис отзывов
func NewService(store Store, swaps SwapGetter) *Service {
	return &Service{
		store: store,
		swaps: swaps,
		now:   time.Now,
	}
}

// Leave сохраняет отзыв автора о другом участнике принятого обмена
func (s *Service) Leave(ctx context.Context, requestID, authorID uuid.UUID, rating int, comment string) (*models.Feedback, error) {
	swap, err := s.swaps.Get(ctx, requestID, authorID)
	if err != nil {
		return nil, err
	}
	if swap.Status != models.SwapStatusAccepted {
		return nil, ErrNotAccepted
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	fb := models.Feedback{
		ID:            uuid.New(),
		SwapRequestID: requestID,
		AuthorID:      authorID,
		SubjectID:     swap.Counterpart(authorID),
		Rating:        rating,
		Comment:       comment,
		CreatedAt:     s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Insert(ctx, fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// ForUser возвращает отзывы о пользователе, новые первыми
func (s *Service) ForUser(ctx context.Context, subjectID uuid.UUID) ([]models.Feedback, error) {
	list, err := s.store.ForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Feedback{}
	}
	return list, nil
}
