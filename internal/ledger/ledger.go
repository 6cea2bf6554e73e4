// Package ledger хранит предложения обмена и проводит их по жизненному циклу
// pending -> accepted | rejected. Завершённое предложение можно только удалить.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
)

// Repository хранит предложения обмена.
// Transition обязан атомарно проверить текущий статус и вернуть ErrInvalidTransition, если он уже не from.
type Repository interface {
	Insert(ctx context.Context, req models.SwapRequest) error
	Get(ctx context.Context, id uuid.UUID) (*models.SwapRequest, error)
	Transition(ctx context.Context, id uuid.UUID, from, to models.SwapStatus, at time.Time) (*models.SwapRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListForUser возвращает только предложения, где userID - одна из сторон, новые первыми.
	// Пустой status означает любой, иначе возвращаются только предложения с этим статусом.
	ListForUser(ctx context.Context, userID uuid.UUID, status models.SwapStatus) ([]models.SwapRequest, error)
}

// ProfileReader даёт ledger актуальные наборы навыков
type ProfileReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
}

// Ledger проверяет и применяет команды над предложениями обмена.
// Каждая команда выполняется под мьютексом, поэтому для читателей она неделима.
type Ledger struct {
	repo     Repository
	profiles ProfileReader
	mu       sync.Mutex
	now      func() time.Time
}

// Option настраивает Ledger
type Option func(*Ledger)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New создает Ledger поверх хранилища предложений и профилей
func New(repo Repository, profiles ProfileReader, opts ...Option) *Ledger {
	l := &Ledger{
		repo:     repo,
		profiles: profiles,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit создает новое предложение в статусе pending
func (l *Ledger) Submit(ctx context.Context, requesterID, recipientID uuid.UUID, offeredSkill, wantedSkill, message string) (*models.SwapRequest, error) {
	offeredSkill = strings.TrimSpace(offeredSkill)
	wantedSkill = strings.TrimSpace(wantedSkill)
	message = strings.TrimSpace(message)

	l.mu.Lock()
	defer l.mu.Unlock()

	requester, err := l.profile(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	// Навык, которого нет у отправителя, отклоняется раньше остальных проверок
	if offeredSkill != "" && !requester.Offers(offeredSkill) {
		return nil, &ValidationError{Reason: ReasonSkillNotOffered, Field: "offered_skill"}
	}

	switch {
	case offeredSkill == "":
		return nil, &ValidationError{Reason: ReasonMissingField, Field: "offered_skill"}
	case wantedSkill == "":
		return nil, &ValidationError{Reason: ReasonMissingField, Field: "wanted_skill"}
	case message == "":
		return nil, &ValidationError{Reason: ReasonMissingField, Field: "message"}
	}

	if requesterID == recipientID {
		return nil, &ValidationError{Reason: ReasonSelfRequest}
	}

	recipient, err := l.profile(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !recipient.Wants(wantedSkill) {
		return nil, &ValidationError{Reason: ReasonSkillNotWanted, Field: "wanted_skill"}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := models.SwapRequest{
		ID:           uuid.New(),
		RequesterID:  requesterID,
		RecipientID:  recipientID,
		OfferedSkill: offeredSkill,
		WantedSkill:  wantedSkill,
		Message:      message,
		Status:       models.SwapStatusPending,
		CreatedAt:    l.now(),
	}
	if err := l.repo.Insert(ctx, req); err != nil {
		return nil, fmt.Errorf("ошибка сохранения предложения обмена: %w", err)
	}
	return &req, nil
}

// Accept принимает предложение. Доступно только получателю.
func (l *Ledger) Accept(ctx context.Context, requestID, actingUserID uuid.UUID) (*models.SwapRequest, error) {
	return l.respond(ctx, requestID, actingUserID, models.SwapStatusAccepted)
}

// Reject отклоняет предложение. Доступно только получателю.
func (l *Ledger) Reject(ctx context.Context, requestID, actingUserID uuid.UUID) (*models.SwapRequest, error) {
	return l.respond(ctx, requestID, actingUserID, models.SwapStatusRejected)
}

func (l *Ledger) respond(ctx context.Context, requestID, actingUserID uuid.UUID, to models.SwapStatus) (*models.SwapRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, err := l.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RecipientID != actingUserID {
		return nil, ErrNotAuthorized
	}
	if req.Status != models.SwapStatusPending {
		return nil, ErrInvalidTransition
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Хранилище повторно проверяет статус в момент записи
	return l.repo.Transition(ctx, requestID, models.SwapStatusPending, to, l.now())
}

// Delete удаляет предложение в любом статусе. Доступно обеим сторонам.
func (l *Ledger) Delete(ctx context.Context, requestID, actingUserID uuid.UUID) (*models.SwapRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, err := l.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Involves(actingUserID) {
		return nil, ErrNotAuthorized
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := l.repo.Delete(ctx, requestID); err != nil {
		return nil, err
	}
	return req, nil
}

// Get возвращает предложение, если зритель является его участником
func (l *Ledger) Get(ctx context.Context, requestID, viewerID uuid.UUID) (*models.SwapView, error) {
	req, err := l.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Involves(viewerID) {
		return nil, ErrNotAuthorized
	}
	return &models.SwapView{SwapRequest: *req, Direction: req.Direction(viewerID)}, nil
}

// List возвращает предложения, видимые зрителю, новые первыми. Пустой status означает любой.
func (l *Ledger) List(ctx context.Context, viewerID uuid.UUID, status models.SwapStatus) ([]models.SwapView, error) {
	reqs, err := l.repo.ListForUser(ctx, viewerID, status)
	if err != nil {
		return nil, err
	}

	views := make([]models.SwapView, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, models.SwapView{SwapRequest: r, Direction: r.Direction(viewerID)})
	}
	return views, nil
}

func (l *Ledger) profile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	p, err := l.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("пользователь %s: %w", id, profile.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}
