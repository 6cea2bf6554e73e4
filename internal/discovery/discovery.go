// Package discovery отбирает и разбивает на страницы профили для поиска партнёров по обмену.
package discovery

import (
	"strings"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// AnyAvailability - значение фильтра, которое пропускает любую доступность
const AnyAvailability = "any"

// Query описывает параметры поиска
type Query struct {
	Search       string
	Availability string
	Page         int
	PageSize     int
}

// Result - текущая страница и сведения о пагинации
type Result struct {
	Items        []models.UserProfile `json:"items"`
	TotalMatches int                  `json:"total_matches"`
	TotalPages   int                  `json:"total_pages"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
}

// DefaultPageSize используется, если размер страницы не задан
const DefaultPageSize = 6

// Run фильтрует профили и возвращает запрошенную страницу.
// Порядок профилей сохраняется; страница за пределами диапазона пуста.
func Run(profiles []models.UserProfile, q Query) Result {
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	matches := Filter(profiles, q.Search, q.Availability)

	totalPages := 1
	if len(matches) > 0 {
		totalPages = (len(matches)-1)/pageSize + 1
	}

	// Сравнение с totalPages до умножения: огромный номер страницы не переполняет int
	items := []models.UserProfile{}
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := start + pageSize
		if end > len(matches) {
			end = len(matches)
		}
		items = matches[start:end]
	}

	return Result{
		Items:        items,
		TotalMatches: len(matches),
		TotalPages:   totalPages,
		Page:         page,
		PageSize:     pageSize,
	}
}

// Filter возвращает профили, удовлетворяющие поисковому запросу и фильтру доступности
func Filter(profiles []models.UserProfile, search, availability string) []models.UserProfile {
	needle := strings.ToLower(search)
	matches := make([]models.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		if MatchesSearch(p, needle) && MatchesAvailability(p, availability) {
			matches = append(matches, p)
		}
	}
	return matches
}

// MatchesSearch проверяет вхождение подстроки в имя или навыки без учёта регистра.
// needle должен быть уже приведён к нижнему регистру.
func MatchesSearch(p models.UserProfile, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.DisplayName), needle) {
		return true
	}
	for _, s := range p.SkillsOffered {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	for _, s := range p.SkillsWanted {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// MatchesAvailability сравнивает доступность без учёта регистра; "any", "all" и пустое значение пропускают всё
func MatchesAvailability(p models.UserProfile, facet string) bool {
	if IsAnyAvailability(facet) {
		return true
	}
	return strings.EqualFold(string(p.Availability), facet)
}

// IsAnyAvailability сообщает, что фильтр доступности не задан
func IsAnyAvailability(facet string) bool {
	return facet == "" || strings.EqualFold(facet, AnyAvailability) || strings.EqualFold(facet, "all")
}
