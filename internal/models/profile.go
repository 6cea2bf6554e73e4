package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Availability обозначает, когда пользователь готов заниматься обменом
type Availability string

const (
	AvailabilityWeekends Availability = "Weekends"
	AvailabilityEvenings Availability = "Evenings"
	AvailabilityFlexible Availability = "Flexible"
)

// AvailabilityLabels возвращает все допустимые значения доступности
func AvailabilityLabels() []Availability {
	return []Availability{AvailabilityWeekends, AvailabilityEvenings, AvailabilityFlexible}
}

// ParseAvailability находит метку доступности без учёта регистра
func ParseAvailability(s string) (Availability, bool) {
	for _, a := range AvailabilityLabels() {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, true
		}
	}
	return "", false
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// UserProfile представляет публичный профиль участника обмена навыками
type UserProfile struct {
	ID            uuid.UUID    `json:"id" yaml:"id"`
	TelegramID    int64        `json:"telegram_id,omitempty" yaml:"telegram_id"`
	DisplayName   string       `json:"display_name" yaml:"display_name"`
	Location      string       `json:"location,omitempty" yaml:"location"`
	AvatarURL     string       `json:"avatar_url,omitempty" yaml:"avatar_url"`
	SkillsOffered []string     `json:"skills_offered" yaml:"skills_offered"`
	SkillsWanted  []string     `json:"skills_wanted" yaml:"skills_wanted"`
	Availability  Availability `json:"availability" yaml:"availability"`
	Rating        float64      `json:"rating" yaml:"rating"`
	ReviewCount   int          `json:"review_count" yaml:"review_count"`
	// RatingTotal - сумма всех оценок без округления; Rating выводится из неё
	RatingTotal   float64      `json:"-" yaml:"-"`
	IsPublic      bool         `json:"is_public" yaml:"is_public"`
	CreatedAt     time.Time    `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time    `json:"updated_at" yaml:"-"`
}

// Offers проверяет, предлагает ли пользователь навык (с учётом регистра)
func (p *UserProfile) Offers(skill string) bool {
	return containsSkill(p.SkillsOffered, skill)
}

// Wants проверяет, ищет ли пользователь навык (с учётом регистра)
func (p *UserProfile) Wants(skill string) bool {
	return containsSkill(p.SkillsWanted, skill)
}

// Normalize приводит наборы навыков и рейтинг к инвариантам профиля
func (p *UserProfile) Normalize() {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	p.Location = strings.TrimSpace(p.Location)
	p.SkillsOffered = NormalizeSkills(p.SkillsOffered)
	p.SkillsWanted = NormalizeSkills(p.SkillsWanted)
	p.Rating = ClampRating(p.Rating)
	if p.ReviewCount < 0 {
		p.ReviewCount = 0
	}
	// Профили с готовым рейтингом (например, из seed) получают сумму из среднего
	if p.RatingTotal == 0 && p.ReviewCount > 0 {
		p.RatingTotal = p.Rating * float64(p.ReviewCount)
	}
}

// NormalizeSkills убирает пустые значения и точные дубликаты, сохраняя порядок ввода
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ClampRating ограничивает рейтинг диапазоном [0, 5]
func ClampRating(r float64) float64 {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

func containsSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if s == skill {
			return true
		}
	}
	return false
}
