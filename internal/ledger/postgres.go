package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

const swapColumns = `id, requester_id, recipient_id, offered_skill, wanted_skill, message, status, created_at, responded_at`

// PostgresRepository хранит предложения в таблице swap_requests.
// Переход статуса выполняется условным UPDATE, поэтому завершённый статус не меняется и после перезапуска.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создает хранилище предложений поверх пула соединений
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Insert(ctx context.Context, req models.SwapRequest) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO swap_requests (id, requester_id, recipient_id, offered_skill, wanted_skill, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, req.ID, req.RequesterID, req.RecipientID, req.OfferedSkill, req.WantedSkill, req.Message, string(req.Status), req.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания предложения обмена: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*models.SwapRequest, error) {
	req, err := scanSwap(r.pool.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения предложения обмена: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.SwapStatus, at time.Time) (*models.SwapRequest, error) {
	req, err := scanSwap(r.pool.QueryRow(ctx, `
		UPDATE swap_requests
		SET status = $1, responded_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+swapColumns,
		string(to), at, id, string(from)))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка обновления статуса предложения: %w", err)
	}

	// Ни одна строка не изменилась: либо предложения нет, либо статус уже другой
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrInvalidTransition
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM swap_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления предложения обмена: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID, status models.SwapStatus) ([]models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests
		WHERE (requester_id = $1 OR recipient_id = $1)`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса предложений обмена: %w", err)
	}
	defer rows.Close()

	var reqs []models.SwapRequest
	for rows.Next() {
		req, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования предложения: %w", err)
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func scanSwap(row pgx.Row) (*models.SwapRequest, error) {
	var req models.SwapRequest
	var status string
	if err := row.Scan(
		&req.ID,
		&req.RequesterID,
		&req.RecipientID,
		&req.OfferedSkill,
		&req.WantedSkill,
		&req.Message,
		&status,
		&req.CreatedAt,
		&req.RespondedAt,
	); err != nil {
		return nil, err
	}
	req.Status = models.SwapStatus(status)
	return &req, nil
}
