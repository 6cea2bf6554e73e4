package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillswap-api/internal/config"
)

// Connect создаёт пул соединений с базой данных и проверяет подключение
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	log.Printf("Подключение к базе данных %s:%s/%s\n",
		cfg.DatabaseConfig.Host, cfg.DatabaseConfig.Port, cfg.DatabaseConfig.Name)

	// Создаем контекст с таймаутом для подключения
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе URL базы данных: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пула соединений: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка при проверке соединения: %w", err)
	}

	log.Println("✅ Успешное подключение к базе данных")
	return pool, nil
}

// GetContext возвращает контекст с таймаутом для запросов к базе данных
func GetContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}

// EnsureSchema создаёт таблицы, если их ещё нет
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ошибка при создании схемы: %w", err)
		}
	}
	log.Println("✅ Схема базы данных проверена")
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		telegram_id BIGINT UNIQUE,
		display_name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		skills_offered JSONB NOT NULL DEFAULT '[]',
		skills_wanted JSONB NOT NULL DEFAULT '[]',
		availability TEXT NOT NULL DEFAULT 'Flexible',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
		rating_total DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rating_total >= 0),
		review_count INTEGER NOT NULL DEFAULT 0 CHECK (review_count >= 0),
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		seq BIGSERIAL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE profiles ADD COLUMN IF NOT EXISTS rating_total DOUBLE PRECISION NOT NULL DEFAULT 0`,
	`UPDATE profiles SET rating_total = rating * review_count WHERE rating_total = 0 AND review_count > 0`,
	`CREATE TABLE IF NOT EXISTS swap_requests (
		id UUID PRIMARY KEY,
		requester_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		recipient_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		offered_skill TEXT NOT NULL,
		wanted_skill TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		responded_at TIMESTAMPTZ NULL,
		CHECK (requester_id <> recipient_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_swap_requests_requester ON swap_requests(requester_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_swap_requests_recipient ON swap_requests(recipient_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		sender_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		recipient_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id), created_at)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id UUID PRIMARY KEY,
		swap_request_id UUID NOT NULL UNIQUE,
		author_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		subject_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}
