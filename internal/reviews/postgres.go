package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
)

// PostgresStore хранит отзывы в таблице feedback
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создает хранилище отзывов поверх пула соединений
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert сохраняет отзыв и обновляет рейтинг получателя в одной транзакции
func (s *PostgresStore) Insert(ctx context.Context, fb models.Feedback) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO feedback (id, swap_request_id, author_id, subject_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, fb.ID, fb.SwapRequestID, fb.AuthorID, fb.SubjectID, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("ошибка сохранения отзыва: %w", err)
	}

	if _, err := profile.ApplyRatingTx(ctx, tx, fb.SubjectID, fb.Rating); err != nil {
		return fmt.Errorf("ошибка обновления рейтинга: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}

func (s *PostgresStore) ForSubject(ctx context.Context, subjectID uuid.UUID) ([]models.Feedback, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, swap_request_id, author_id, subject_id, rating, comment, created_at
		FROM feedback
		WHERE subject_id = $1
		ORDER BY created_at DESC, id DESC
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса отзывов: %w", err)
	}
	defer rows.Close()

	var list []models.Feedback
	for rows.Next() {
		var fb models.Feedback
		var rating int16
		if err := rows.Scan(&fb.ID, &fb.SwapRequestID, &fb.AuthorID, &fb.SubjectID, &rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования отзыва: %w", err)
		}
		fb.Rating = int(rating)
		list = append(list, fb)
	}
	return list, rows.Err()
}
