package chat

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для связей и чатов
func (s *ChatService) SetupRoutes(app *fiber.App) {
	app.Get("/api/connections", s.authMW, s.GetConnections)

	// Защищенные маршруты (требуют авторизации)
	api := app.Group("/api/chats", s.authMW)
	api.Get("/:partnerId/messages", s.GetMessages)
	api.Post("/:partnerId/messages", s.SendMessage)
}
