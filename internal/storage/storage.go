// Package storage собирает хранилища всех доменных пакетов для выбранного драйвера
package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rajivgeraev/skillswap-api/internal/chat"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/reviews"
	"github.com/rajivgeraev/skillswap-api/internal/session"
)

// Stores - набор хранилищ приложения
type Stores struct {
	Profiles profile.Store
	Swaps    ledger.Repository
	Messages chat.Store
	Feedback reviews.Store
	Sessions *session.Store

	closers []func()
}

// Open открывает хранилища согласно STORAGE_DRIVER
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{}

	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		if err := db.EnsureSchema(ctx, pool); err != nil {
			s.Close()
			return nil, err
		}
		s.usePostgres(pool)
	case config.StorageDriverMemory:
		log.Println("⚠️ Используется хранилище в памяти, данные не сохраняются между запусками")
		s.Profiles = profile.NewMemoryStore()
		s.Swaps = ledger.NewMemoryRepository()
		s.Messages = chat.NewMemoryStore()
		s.Feedback = reviews.NewMemoryStore(s.Profiles)
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %s", cfg.StorageDriver)
	}

	client, err := s.openRedis(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Sessions = session.NewStore(client, cfg.RedisConfig.SessionTTL)

	return s, nil
}

func (s *Stores) usePostgres(pool *pgxpool.Pool) {
	s.Profiles = profile.NewPostgresStore(pool)
	s.Swaps = ledger.NewPostgresRepository(pool)
	s.Messages = chat.NewPostgresStore(pool)
	s.Feedback = reviews.NewPostgresStore(pool)
}

// openRedis подключается к Redis. В режиме memory без REDIS_URL поднимается встроенный сервер.
func (s *Stores) openRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	addr, password := cfg.RedisConfig.Addr, cfg.RedisConfig.Password
	if cfg.StorageDriver == config.StorageDriverMemory && !cfg.RedisConfig.External {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("ошибка запуска встроенного Redis: %w", err)
		}
		s.closers = append(s.closers, mr.Close)
		addr, password = mr.Addr(), ""
		log.Printf("⚠️ Сессии хранятся во встроенном Redis (%s)", addr)
	}

	client, err := session.Connect(ctx, &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       cfg.RedisConfig.DB,
	})
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { client.Close() })
	log.Println("✅ Успешное подключение к Redis")
	return client, nil
}

// Close освобождает ресурсы в обратном порядке
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
