package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/services/apierror"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// initDataTTL - сколько времени initData от Telegram считается свежей
const initDataTTL = 24 * time.Hour

// SessionStore создает и завершает сессии пользователей
type SessionStore interface {
	SetCurrentUser(ctx context.Context, p *models.UserProfile) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	profiles   profile.Store
	sessions   SessionStore
	authMW     fiber.Handler
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, jwtService *utils.JWTService, profiles profile.Store, sessions SessionStore, authMW fiber.Handler) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: jwtService,
		profiles:   profiles,
		sessions:   sessions,
		authMW:     authMW,
	}
}

// TelegramAuthHandler проверяет initData, регистрирует пользователя, открывает сессию и выдаёт JWT
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	var payload struct {
		InitData string `json:"init_data"`
	}

	if err := c.Bind().Body(&payload); err != nil || payload.InitData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат запроса"})
	}

	// Проверяем initData
	if err := initdata.Validate(payload.InitData, s.cfg.TelegramBotToken, initDataTTL); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Недействительные данные Telegram"})
	}

	// Парсим данные
	data, err := initdata.Parse(payload.InitData)
	if err != nil || data.User.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Не удалось разобрать initData"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	user, created, err := s.findOrRegister(ctx, data.User)
	if err != nil {
		return apierror.Respond(c, err)
	}

	if err := s.sessions.SetCurrentUser(ctx, user); err != nil {
		log.Printf("❌ Ошибка создания сессии: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания сессии"})
	}

	// Генерируем JWT
	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.JSON(fiber.Map{
		"token":   jwtToken,
		"user":    user,
		"created": created,
	})
}

// LogoutHandler завершает сессию текущего пользователя
func (s *AuthService) LogoutHandler(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	if err := s.sessions.Clear(c.UserContext(), userID); err != nil {
		log.Printf("❌ Ошибка завершения сессии: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка завершения сессии"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *AuthService) findOrRegister(ctx context.Context, tgUser initdata.User) (*models.UserProfile, bool, error) {
	existing, err := s.profiles.GetByTelegramID(ctx, tgUser.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, false, err
	}

	created, err := s.profiles.Create(ctx, models.UserProfile{
		TelegramID:   tgUser.ID,
		DisplayName:  displayName(tgUser),
		AvatarURL:    tgUser.PhotoURL,
		Availability: models.AvailabilityFlexible,
		IsPublic:     true,
	})
	if errors.Is(err, profile.ErrAlreadyExists) {
		// Параллельная регистрация того же пользователя
		existing, err := s.profiles.GetByTelegramID(ctx, tgUser.ID)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}

	log.Printf("✅ Зарегистрирован новый пользователь %s (telegram %d)", created.ID, tgUser.ID)
	return created, true, nil
}

func displayName(u initdata.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}
