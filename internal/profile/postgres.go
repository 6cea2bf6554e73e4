package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

const profileColumns = `id, telegram_id, display_name, location, avatar_url, skills_offered, skills_wanted,
	availability, rating, rating_total, review_count, is_public, created_at, updated_at`

// PostgresStore хранит профили в таблице profiles
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создает хранилище профилей поверх пула соединений
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) List(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса профилей: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	return getOne(ctx, s.pool, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (s *PostgresStore) GetByTelegramID(ctx context.Context, telegramID int64) (*models.UserProfile, error) {
	return getOne(ctx, s.pool, `SELECT `+profileColumns+` FROM profiles WHERE telegram_id = $1`, telegramID)
}

func (s *PostgresStore) Create(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Normalize()

	offered, wanted, err := marshalSkills(&p)
	if err != nil {
		return nil, err
	}

	var telegramID *int64
	if p.TelegramID != 0 {
		telegramID = &p.TelegramID
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, telegram_id, display_name, location, avatar_url, skills_offered, skills_wanted,
			availability, rating, rating_total, review_count, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+profileColumns,
		p.ID, telegramID, p.DisplayName, p.Location, p.AvatarURL, offered, wanted,
		string(p.Availability), p.Rating, p.RatingTotal, p.ReviewCount, p.IsPublic)

	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("ошибка при создании профиля: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) Update(ctx context.Context, id uuid.UUID, edit Edit) (*models.UserProfile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := getOne(ctx, tx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	edit.Apply(p)

	offered, wanted, err := marshalSkills(p)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE profiles
		SET display_name = $1, location = $2, avatar_url = $3, skills_offered = $4, skills_wanted = $5,
			availability = $6, is_public = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+profileColumns,
		p.DisplayName, p.Location, p.AvatarURL, offered, wanted, string(p.Availability), p.IsPublic, id)

	updated, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении профиля: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) ApplyRating(ctx context.Context, id uuid.UUID, rating int) (*models.UserProfile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	updated, err := ApplyRatingTx(ctx, tx, id, rating)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return updated, nil
}

// ApplyRatingTx учитывает оценку внутри переданной транзакции.
// Строка профиля блокируется до конца транзакции.
func ApplyRatingTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, rating int) (*models.UserProfile, error) {
	p, err := getOne(ctx, tx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	AddRating(p, rating)

	row := tx.QueryRow(ctx, `
		UPDATE profiles SET rating = $1, rating_total = $2, review_count = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+profileColumns, p.Rating, p.RatingTotal, p.ReviewCount, id)

	updated, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении рейтинга: %w", err)
	}
	return updated, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getOne(ctx context.Context, q querier, sql string, arg any) (*models.UserProfile, error) {
	p, err := scanProfile(q.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении профиля: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	var telegramID pgtype.Int8
	var availability string
	var offeredData, wantedData []byte

	err := row.Scan(
		&p.ID, &telegramID, &p.DisplayName, &p.Location, &p.AvatarURL,
		&offeredData, &wantedData, &availability, &p.Rating, &p.RatingTotal, &p.ReviewCount,
		&p.IsPublic, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if telegramID.Valid {
		p.TelegramID = telegramID.Int64
	}
	p.Availability = models.Availability(availability)

	// Навыки хранятся в JSONB массивах
	if err := json.Unmarshal(offeredData, &p.SkillsOffered); err != nil {
		return nil, fmt.Errorf("ошибка разбора предлагаемых навыков: %w", err)
	}
	if err := json.Unmarshal(wantedData, &p.SkillsWanted); err != nil {
		return nil, fmt.Errorf("ошибка разбора искомых навыков: %w", err)
	}
	p.SkillsOffered = models.NormalizeSkills(p.SkillsOffered)
	p.SkillsWanted = models.NormalizeSkills(p.SkillsWanted)

	return &p, nil
}

func marshalSkills(p *models.UserProfile) ([]byte, []byte, error) {
	offered, err := json.Marshal(p.SkillsOffered)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка при сериализации навыков: %w", err)
	}
	wanted, err := json.Marshal(p.SkillsWanted)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка при сериализации навыков: %w", err)
	}
	return offered, wanted, nil
}
