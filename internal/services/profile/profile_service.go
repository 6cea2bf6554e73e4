package profile

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	profilestore "github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/services/apierror"
	"github.com/rajivgeraev/skillswap-api/internal/session"
)

// SessionStore хранит снимок профиля текущего пользователя
type SessionStore interface {
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	SetCurrentUser(ctx context.Context, p *models.UserProfile) error
}

// ProfileService обслуживает профиль текущего пользователя и публичные профили
type ProfileService struct {
	profiles profilestore.Store
	sessions SessionStore
	validate *validator.Validate
	authMW   fiber.Handler
}

// NewProfileService создает новый экземпляр ProfileService
func NewProfileService(profiles profilestore.Store, sessions SessionStore, authMW fiber.Handler) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		authMW:   authMW,
	}
}

// UpdateProfileRequest - правка собственного профиля. Отсутствующие поля не меняются.
type UpdateProfileRequest struct {
	DisplayName   *string  `json:"display_name" validate:"omitempty,max=100"`
	Location      *string  `json:"location" validate:"omitempty,max=100"`
	AvatarURL     *string  `json:"avatar_url" validate:"omitempty,url,max=500"`
	SkillsOffered []string `json:"skills_offered" validate:"omitempty,max=30,dive,max=60"`
	SkillsWanted  []string `json:"skills_wanted" validate:"omitempty,max=30,dive,max=60"`
	Availability  *string  `json:"availability"`
	IsPublic      *bool    `json:"is_public"`
}

// GetMe возвращает профиль текущего пользователя
func (s *ProfileService) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	// Сессия подтверждает, кто текущий пользователь; данные берутся из хранилища
	if _, err := s.sessions.CurrentUser(ctx, userID); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Сессия завершена, авторизуйтесь заново"})
		}
		return apierror.Respond(c, err)
	}

	me, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return apierror.Respond(c, err)
	}
	if err := s.sessions.SetCurrentUser(ctx, me); err != nil {
		log.Printf("⚠️ Не удалось обновить сессию %s: %v", userID, err)
	}

	return c.JSON(me)
}

// UpdateMe применяет правку к профилю текущего пользователя
func (s *ProfileService) UpdateMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var req UpdateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	edit, err := s.toEdit(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	updated, err := s.profiles.Update(ctx, userID, edit)
	if err != nil {
		return apierror.Respond(c, err)
	}

	if err := s.sessions.SetCurrentUser(ctx, updated); err != nil {
		log.Printf("⚠️ Не удалось обновить сессию %s: %v", userID, err)
	}

	return c.JSON(updated)
}

// GetProfile возвращает профиль по ID. Скрытый профиль видит только владелец.
func (s *ProfileService) GetProfile(c fiber.Ctx) error {
	viewerID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID профиля"})
	}

	ctx, cancel := db.GetContext(c.UserContext())
	defer cancel()

	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return apierror.Respond(c, err)
	}
	if !p.IsPublic && p.ID != viewerID {
		return apierror.Respond(c, profilestore.ErrNotFound)
	}

	return c.JSON(p)
}

func (s *ProfileService) toEdit(req UpdateProfileRequest) (profilestore.Edit, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return profilestore.Edit{}, errors.New("некорректное поле: " + verrs[0].Field())
		}
		return profilestore.Edit{}, err
	}

	edit := profilestore.Edit{
		Location:      req.Location,
		AvatarURL:     req.AvatarURL,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		IsPublic:      req.IsPublic,
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return profilestore.Edit{}, errors.New("имя не может быть пустым")
		}
		edit.DisplayName = &name
	}

	if req.Availability != nil {
		a, ok := models.ParseAvailability(*req.Availability)
		if !ok {
			return profilestore.Edit{}, errors.New("неизвестное значение доступности")
		}
		edit.Availability = &a
	}

	return edit, nil
}
