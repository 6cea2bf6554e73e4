package swap

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *SwapService) SetupRoutes(app *fiber.App) {
	// Защищенные маршруты (требуют авторизации)
	api := app.Group("/api/swaps", s.authMW)

	api.Post("/", s.CreateSwap)
	api.Get("/", s.GetMySwaps)
	api.Get("/:id", s.GetSwap)
	api.Put("/:id/status", s.UpdateSwapStatus)
	api.Delete("/:id", s.DeleteSwap)
	api.Post("/:id/feedback", s.LeaveFeedback)

	app.Get("/api/profiles/:id/feedback", s.authMW, s.GetFeedback)
}
