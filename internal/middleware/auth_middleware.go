package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// SessionChecker сообщает, активна ли сессия пользователя
type SessionChecker interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AuthMiddleware создаёт middleware для проверки JWT.
// Если sessions не nil, токен принимается только при активной сессии, поэтому logout отзывает токен.
func AuthMiddleware(jwtService *utils.JWTService, sessions SessionChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Отсутствует заголовок авторизации",
			})
		}

		// Проверяем Bearer токен
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Неверный формат заголовка авторизации",
			})
		}

		userID, err := jwtService.ExtractUserID(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Недействительный или просроченный токен",
			})
		}

		// Проверяем, что userID является валидным UUID
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Неверный ID пользователя",
			})
		}

		if sessions != nil {
			ok, err := sessions.Exists(c.UserContext(), userUUID)
			if err != nil {
				log.Printf("❌ Ошибка проверки сессии: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Ошибка проверки сессии",
				})
			}
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Сессия завершена, авторизуйтесь заново",
				})
			}
		}

		// Добавляем userID в контекст
		c.Locals("userID", userID)

		return c.Next()
	}
}

// UserID возвращает ID пользователя, сохранённый AuthMiddleware
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	raw, ok := c.Locals("userID").(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
