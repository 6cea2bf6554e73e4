// Package profile хранит профили пользователей. Ядро читает профили только через Store,
// поэтому правки навыков видны поиску и проверкам предложений сразу после сохранения.
package profile

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

var (
	ErrNotFound      = errors.New("профиль не найден")
	ErrAlreadyExists = errors.New("профиль уже существует")
)

// Store - хранилище профилей. List возвращает профили в стабильном порядке регистрации.
type Store interface {
	List(ctx context.Context) ([]models.UserProfile, error)
	Get(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.UserProfile, error)
	Create(ctx context.Context, p models.UserProfile) (*models.UserProfile, error)
	Update(ctx context.Context, id uuid.UUID, edit Edit) (*models.UserProfile, error)
	ApplyRating(ctx context.Context, id uuid.UUID, rating int) (*models.UserProfile, error)
}

// Edit описывает изменения, которые владелец вносит в свой профиль. nil-поля не меняются.
type Edit struct {
	DisplayName   *string
	Location      *string
	AvatarURL     *string
	SkillsOffered []string
	SkillsWanted  []string
	Availability  *models.Availability
	IsPublic      *bool
}

// Apply применяет правку к профилю и нормализует результат
func (e Edit) Apply(p *models.UserProfile) {
	if e.DisplayName != nil {
		p.DisplayName = *e.DisplayName
	}
	if e.Location != nil {
		p.Location = *e.Location
	}
	if e.AvatarURL != nil {
		p.AvatarURL = *e.AvatarURL
	}
	if e.SkillsOffered != nil {
		p.SkillsOffered = e.SkillsOffered
	}
	if e.SkillsWanted != nil {
		p.SkillsWanted = e.SkillsWanted
	}
	if e.Availability != nil {
		p.Availability = *e.Availability
	}
	if e.IsPublic != nil {
		p.IsPublic = *e.IsPublic
	}
	p.Normalize()
}

// AddRating учитывает новую оценку: сумма оценок хранится без округления,
// а Rating округляется до десятых и ограничивается диапазоном [0, 5].
func AddRating(p *models.UserProfile, rating int) {
	if p.ReviewCount < 0 {
		p.ReviewCount = 0
	}
	if p.RatingTotal == 0 && p.ReviewCount > 0 {
		p.RatingTotal = p.Rating * float64(p.ReviewCount)
	}
	p.RatingTotal += float64(rating)
	p.ReviewCount++
	p.Rating = models.ClampRating(math.Round(p.RatingTotal/float64(p.ReviewCount)*10) / 10)
}
