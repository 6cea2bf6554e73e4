package discovery

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/discovery"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/services/apierror"
)

// DiscoveryService ищет партнёров для обмена навыками
type DiscoveryService struct {
	profiles profile.Store
	pageSize int
	authMW   fiber.Handler
}

// NewDiscoveryService создает новый экземпляр DiscoveryService
func NewDiscoveryService(cfg *config.Config, profiles profile.Store, authMW fiber.Handler) *DiscoveryService {
	return &DiscoveryService{
		profiles: profiles,
		pageSize: cfg.DiscoveryConfig.PageSize,
		authMW:   authMW,
	}
}

// Search возвращает страницу публичных профилей, кроме профиля самого пользователя
func (s *DiscoveryService) Search(c fiber.Ctx) error {
	viewerID, _ := middleware.UserID(c)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	all, err := s.profiles.List(ctx)
	if err != nil {
		return apierror.Respond(c, err)
	}

	candidates := make([]models.UserProfile, 0, len(all))
	for _, p := range all {
		if p.IsPublic && p.ID != viewerID {
			candidates = append(candidates, p)
		}
	}

	result := discovery.Run(candidates, discovery.Query{
		Search:       c.Query("q"),
		Availability: c.Query("availability", discovery.AnyAvailability),
		Page:         page,
		PageSize:     s.pageSize,
	})

	return c.JSON(result)
}
