package discovery

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты поиска
func (s *DiscoveryService) SetupRoutes(app *fiber.App) {
	app.Get("/api/profiles", s.authMW, s.Search)
}
