package cloudinary

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршрут параметров загрузки
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	app.Get("/api/upload/params", s.authMW, s.GenerateUploadParams)
}
