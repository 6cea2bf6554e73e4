package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// MemoryStore хранит сообщения в памяти в порядке добавления
type MemoryStore struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewMemoryStore создает пустое хранилище сообщений
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	return nil
}

func (s *MemoryStore) Between(ctx context.Context, userA, userB uuid.UUID, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Message
	for _, m := range s.messages {
		if (m.SenderID == userA && m.RecipientID == userB) || (m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return append([]models.Message(nil), out...), nil
}
