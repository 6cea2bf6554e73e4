package cloudinary

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// CloudinaryService выдаёт подписанные параметры для загрузки аватара напрямую в Cloudinary
type CloudinaryService struct {
	cfg          config.CloudinaryConfig
	cld          *cloudinary.Cloudinary
	uploadFolder string
	authMW       fiber.Handler
	now          func() time.Time
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg *config.Config, authMW fiber.Handler) (*CloudinaryService, error) {
	cc := cfg.CloudinaryConfig
	cld, err := cloudinary.NewFromParams(cc.CloudName, cc.APIKey, cc.APISecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Cloudinary: %w", err)
	}
	return &CloudinaryService{
		cfg:          cc,
		cld:          cld,
		uploadFolder: cc.UploadFolder,
		authMW:       authMW,
		now:          time.Now,
	}, nil
}

// UploadParams подписывает параметры загрузки для аватара пользователя.
// public_id совпадает с ID пользователя, поэтому новая загрузка заменяет старый аватар.
func (s *CloudinaryService) UploadParams(userID string) (fiber.Map, error) {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("folder", s.uploadFolder)
	params.Set("public_id", userID)
	params.Set("overwrite", "true")
	if s.cfg.UploadPreset != "" {
		params.Set("upload_preset", s.cfg.UploadPreset)
	}

	signature, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи параметров: %w", err)
	}

	result := fiber.Map{
		"timestamp":  timestamp,
		"signature":  signature,
		"api_key":    s.cfg.APIKey,
		"cloud_name": s.cfg.CloudName,
		"folder":     s.uploadFolder,
		"public_id":  userID,
		"overwrite":  "true",
		"upload_url": fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cfg.CloudName),
	}
	if s.cfg.UploadPreset != "" {
		result["upload_preset"] = s.cfg.UploadPreset
	}

	// Адрес, по которому аватар будет доступен после загрузки
	if img, err := s.cld.Image(s.uploadFolder + "/" + userID); err == nil {
		if avatarURL, err := img.String(); err == nil {
			result["avatar_url"] = avatarURL
		}
	}

	return result, nil
}

// GenerateUploadParams создаёт параметры для загрузки аватара текущего пользователя
func (s *CloudinaryService) GenerateUploadParams(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	params, err := s.UploadParams(userID.String())
	if err != nil {
		log.Printf("❌ %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации параметров загрузки"})
	}
	return c.JSON(params)
}
