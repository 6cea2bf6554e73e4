package swap

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/reviews"
	"github.com/rajivgeraev/skillswap-api/internal/services/apierror"
)

// Notifier доставляет события подключенным клиентам
type Notifier interface {
	Notify(userID uuid.UUID, event models.EventType, payload any)
}

// SwapService представляет сервис для работы с предложениями обмена
type SwapService struct {
	ledger   *ledger.Ledger
	profiles profile.Store
	reviews  *reviews.Service
	notifier Notifier
	authMW   fiber.Handler
}

// NewSwapService создает новый экземпляр SwapService. notifier может быть nil.
func NewSwapService(l *ledger.Ledger, profiles profile.Store, rv *reviews.Service, notifier Notifier, authMW fiber.Handler) *SwapService {
	return &SwapService{
		ledger:   l,
		profiles: profiles,
		reviews:  rv,
		notifier: notifier,
		authMW:   authMW,
	}
}

// SwapResponse - предложение с кратким профилем другой стороны
type SwapResponse struct {
	models.SwapView
	Counterpart *models.UserProfile `json:"counterpart,omitempty"`
}

// CreateSwap создает новое предложение обмена
func (s *SwapService) CreateSwap(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		RecipientID  string `json:"recipient_id"`
		OfferedSkill string `json:"offered_skill"`
		WantedSkill  string `json:"wanted_skill"`
		Message      string `json:"message"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	recipientID, err := uuid.Parse(requestData.RecipientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID получателя"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	req, err := s.ledger.Submit(ctx, userID, recipientID, requestData.OfferedSkill, requestData.WantedSkill, requestData.Message)
	if err != nil {
		return apierror.Respond(c, err)
	}

	log.Printf("✅ Создано предложение обмена %s: %s -> %s", req.ID, req.RequesterID, req.RecipientID)
	s.notify(req.RecipientID, models.EventSwapCreated, *req)

	return c.Status(fiber.StatusCreated).JSON(s.withCounterpart(ctx, *req, userID))
}

// GetMySwaps возвращает отправленные и полученные предложения, новые первыми
func (s *SwapService) GetMySwaps(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	status, valid := models.ParseSwapStatus(c.Query("status"))
	if !valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неизвестный статус предложения"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	views, err := s.ledger.List(ctx, userID, status)
	if err != nil {
		return apierror.Respond(c, err)
	}

	swaps := make([]SwapResponse, 0, len(views))
	for _, v := range views {
		swaps = append(swaps, s.viewWithCounterpart(ctx, v, userID))
	}

	return c.JSON(fiber.Map{
		"swaps": swaps,
		"count": len(swaps),
	})
}

// GetSwap возвращает предложение его участнику
func (s *SwapService) GetSwap(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}
	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	view, err := s.ledger.Get(ctx, swapID, userID)
	if err != nil {
		return apierror.Respond(c, err)
	}
	return c.JSON(s.viewWithCounterpart(ctx, *view, userID))
}

// UpdateSwapStatus принимает или отклоняет полученное предложение
func (s *SwapService) UpdateSwapStatus(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}
	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
	}

	var requestData struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	var (
		req   *models.SwapRequest
		event models.EventType
	)
	switch models.SwapStatus(requestData.Status) {
	case models.SwapStatusAccepted:
		req, err = s.ledger.Accept(ctx, swapID, userID)
		event = models.EventSwapAccepted
	case models.SwapStatusRejected:
		req, err = s.ledger.Reject(ctx, swapID, userID)
		event = models.EventSwapRejected
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Статус должен быть accepted или rejected"})
	}
	if err != nil {
		return apierror.Respond(c, err)
	}

	log.Printf("✅ Предложение %s переведено в статус %s", req.ID, req.Status)
	s.notify(req.RequesterID, event, *req)

	return c.JSON(s.withCounterpart(ctx, *req, userID))
}

// DeleteSwap удаляет предложение в любом статусе
func (s *SwapService) DeleteSwap(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}
	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	req, err := s.ledger.Delete(ctx, swapID, userID)
	if err != nil {
		return apierror.Respond(c, err)
	}

	s.notify(req.Counterpart(userID), models.EventSwapDeleted, fiber.Map{"id": req.ID})
	return c.JSON(fiber.Map{"success": true, "id": req.ID})
}

// LeaveFeedback сохраняет отзыв о другой стороне принятого обмена
func (s *SwapService) LeaveFeedback(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}
	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
	}

	var requestData struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	fb, err := s.reviews.Leave(ctx, swapID, userID, requestData.Rating, requestData.Comment)
	if err != nil {
		return apierror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fb)
}

// GetFeedback возвращает отзывы о пользователе, новые первыми
func (s *SwapService) GetFeedback(c fiber.Ctx) error {
	subjectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID профиля"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	list, err := s.reviews.ForUser(ctx, subjectID)
	if err != nil {
		return apierror.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"feedback": list,
		"count":    len(list),
	})
}

func (s *SwapService) notify(userID uuid.UUID, event models.EventType, payload any) {
	if s.notifier != nil {
		s.notifier.Notify(userID, event, payload)
	}
}

func (s *SwapService) withCounterpart(ctx context.Context, req models.SwapRequest, viewerID uuid.UUID) SwapResponse {
	return s.viewWithCounterpart(ctx, models.SwapView{SwapRequest: req, Direction: req.Direction(viewerID)}, viewerID)
}

func (s *SwapService) viewWithCounterpart(ctx context.Context, v models.SwapView, viewerID uuid.UUID) SwapResponse {
	resp := SwapResponse{SwapView: v}
	other, err := s.profiles.Get(ctx, v.Counterpart(viewerID))
	if err != nil {
		log.Printf("⚠️ Не удалось получить профиль %s: %v", v.Counterpart(viewerID), err)
		return resp
	}
	resp.Counterpart = other
	return resp
}
