// Package session хранит снимок профиля текущего пользователя в Redis.
// Ядро не читает сессию: проверки предложений всегда идут в хранилище профилей.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// ErrNoSession возвращается, если у пользователя нет активной сессии
var ErrNoSession = errors.New("сессия не найдена")

// Store - сессии в Redis с ключами session:<userID>
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore создает хранилище сессий поверх готового клиента Redis
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Connect создает клиента Redis и проверяет соединение
func Connect(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}
	return client, nil
}

func key(userID uuid.UUID) string {
	return fmt.Sprintf("session:%s", userID)
}

// CurrentUser возвращает профиль из сессии пользователя
func (s *Store) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	val, err := s.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("ошибка чтения сессии %s: %w", userID, err)
	}

	var p models.UserProfile
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("ошибка разбора сессии %s: %w", userID, err)
	}
	return &p, nil
}

// SetCurrentUser сохраняет снимок профиля и продлевает сессию
func (s *Store) SetCurrentUser(ctx context.Context, p *models.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии: %w", err)
	}
	if err := s.client.Set(ctx, key(p.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи сессии %s: %w", p.ID, err)
	}
	return nil
}

// Refresh обновляет снимок профиля, только если сессия уже существует
func (s *Store) Refresh(ctx context.Context, p *models.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии: %w", err)
	}
	if err := s.client.SetArgs(ctx, key(p.ID), data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("ошибка обновления сессии %s: %w", p.ID, err)
	}
	return nil
}

// Exists проверяет наличие активной сессии
func (s *Store) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("ошибка проверки сессии %s: %w", userID, err)
	}
	return n > 0, nil
}

// Clear завершает сессию пользователя
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("ошибка удаления сессии %s: %w", userID, err)
	}
	return nil
}
