package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// PostgresStore хранит сообщения в таблице messages
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создает хранилище сообщений поверх пула соединений
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, msg models.Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.SenderID, msg.RecipientID, msg.Text, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка вставки сообщения: %w", err)
	}
	return nil
}

func (s *PostgresStore) Between(ctx context.Context, userA, userB uuid.UUID, limit int) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, recipient_id, text, created_at
		FROM messages
		WHERE LEAST(sender_id, recipient_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(sender_id, recipient_id) = GREATEST($1::uuid, $2::uuid)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, userA, userB, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса сообщений: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сообщения: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Выборка шла от новых к старым, история отдается от старых к новым
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
