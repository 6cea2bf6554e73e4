package chat

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	chatcore "github.com/rajivgeraev/skillswap-api/internal/chat"
	"github.com/rajivgeraev/skillswap-api/internal/connections"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/services/apierror"
)

// ChatService представляет сервис для работы со связями и перепиской
type ChatService struct {
	chat        *chatcore.Service
	connections *connections.Deriver
	profiles    profile.Store
	authMW      fiber.Handler
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(chat *chatcore.Service, deriver *connections.Deriver, profiles profile.Store, authMW fiber.Handler) *ChatService {
	return &ChatService{
		chat:        chat,
		connections: deriver,
		profiles:    profiles,
		authMW:      authMW,
	}
}

// GetConnections возвращает партнёров, с которыми у пользователя есть принятый обмен
func (s *ChatService) GetConnections(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	conns, err := s.connections.ConnectionsFor(ctx, userID)
	if err != nil {
		return apierror.Respond(c, err)
	}

	// Добавляем данные о партнёре
	for i := range conns {
		partner, err := s.profiles.Get(ctx, conns[i].PartnerID)
		if err != nil {
			log.Printf("⚠️ Не удалось получить профиль партнёра %s: %v", conns[i].PartnerID, err)
			continue
		}
		conns[i].Partner = partner
	}

	return c.JSON(fiber.Map{
		"connections": conns,
		"count":       len(conns),
	})
}

// GetMessages возвращает историю переписки с партнёром, старые сообщения первыми
func (s *ChatService) GetMessages(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}
	partnerID, err := uuid.Parse(c.Params("partnerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID партнёра"})
	}

	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный параметр limit"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	msgs, err := s.chat.History(ctx, userID, partnerID, limit)
	if err != nil {
		return apierror.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"messages": msgs,
		"count":    len(msgs),
	})
}

// SendMessage отправляет сообщение партнёру
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}
	partnerID, err := uuid.Parse(c.Params("partnerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID партнёра"})
	}

	var requestData struct {
		Text string `json:"text"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	msg, err := s.chat.Send(ctx, userID, partnerID, requestData.Text)
	if err != nil {
		return apierror.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}
