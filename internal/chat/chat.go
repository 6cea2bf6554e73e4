// Package chat хранит переписку между пользователями, связанными принятым обменом.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

const (
	// DefaultHistoryLimit - сколько последних сообщений отдается без явного лимита
	DefaultHistoryLimit = 50
	// MaxHistoryLimit ограничивает размер одной выборки
	MaxHistoryLimit = 200
	// MaxMessageLength - максимальная длина сообщения в символах
	MaxMessageLength = 4000
)

var (
	ErrEmptyMessage   = errors.New("сообщение не может быть пустым")
	ErrMessageTooLong = errors.New("сообщение слишком длинное")
	ErrNotConnected   = errors.New("пользователи не связаны принятым обменом")
)

// Store хранит сообщения
type Store interface {
	Append(ctx context.Context, msg models.Message) error
	// Between возвращает последние limit сообщений пары, старые первыми
	Between(ctx context.Context, userA, userB uuid.UUID, limit int) ([]models.Message, error)
}

// ConnectionChecker решает, можно ли пользователям переписываться
type ConnectionChecker interface {
	CanMessage(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

// Notifier доставляет события подключенным клиентам
type Notifier interface {
	Notify(userID uuid.UUID, event models.EventType, payload any)
}

// Service отправляет и читает сообщения
type Service struct {
	store       Store
	connections ConnectionChecker
	notifier    Notifier
	now         func() time.Time
}

// NewService создает сервис переписки. notifier может быть nil.
func NewService(store Store, connections ConnectionChecker, notifier Notifier) *Service {
	return &Service{
		store:       store,
		connections: connections,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Send сохраняет сообщение и уведомляет получателя
func (s *Service) Send(ctx context.Context, senderID, recipientID uuid.UUID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	if err := s.requireConnection(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("ошибка сохранения сообщения: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(recipientID, models.EventNewMessage, msg)
	}
	return &msg, nil
}

// History возвращает последние сообщения с партнёром, старые первыми
func (s *Service) History(ctx context.Context, userID, partnerID uuid.UUID, limit int) ([]models.Message, error) {
	if err := s.requireConnection(ctx, userID, partnerID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	msgs, err := s.store.Between(ctx, userID, partnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сообщений: %w", err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

func (s *Service) requireConnection(ctx context.Context, userA, userB uuid.UUID) error {
	ok, err := s.connections.CanMessage(ctx, userA, userB)
	if err != nil {
		return fmt.Errorf("ошибка проверки связи: %w", err)
	}
	if !ok {
		return ErrNotConnected
	}
	return nil
}
