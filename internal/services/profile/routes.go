package profile

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты профиля
func (s *ProfileService) SetupRoutes(app *fiber.App) {
	me := app.Group("/api/me", s.authMW)
	me.Get("/", s.GetMe)
	me.Put("/", s.UpdateMe)

	app.Get("/api/profiles/:id", s.authMW, s.GetProfile)
}
