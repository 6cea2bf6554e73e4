package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	chatcore "github.com/rajivgeraev/skillswap-api/internal/chat"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/connections"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/reviews"
	"github.com/rajivgeraev/skillswap-api/internal/services/auth"
	"github.com/rajivgeraev/skillswap-api/internal/services/chat"
	"github.com/rajivgeraev/skillswap-api/internal/services/cloudinary"
	"github.com/rajivgeraev/skillswap-api/internal/services/discovery"
	"github.com/rajivgeraev/skillswap-api/internal/services/profile"
	"github.com/rajivgeraev/skillswap-api/internal/services/swap"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
	"github.com/rajivgeraev/skillswap-api/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем хранилища
	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации хранилищ: %v", err)
	}
	defer stores.Close()

	// Ядро
	hub := websocket.NewManager()
	swapLedger := ledger.New(stores.Swaps, stores.Profiles)
	deriver := connections.NewDeriver(swapLedger)
	chatService := chatcore.NewService(stores.Messages, deriver, hub)
	reviewService := reviews.NewService(stores.Feedback, swapLedger)

	jwtService := utils.NewJWTService(cfg.JWTSecret)
	authMiddleware := middleware.AuthMiddleware(jwtService, stores.Sessions)

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "storage": cfg.StorageDriver})
	})

	// Регистрируем маршруты
	auth.NewAuthService(cfg, jwtService, stores.Profiles, stores.Sessions, authMiddleware).SetupRoutes(app)
	profile.NewProfileService(stores.Profiles, stores.Sessions, authMiddleware).SetupRoutes(app)
	discovery.NewDiscoveryService(cfg, stores.Profiles, authMiddleware).SetupRoutes(app)
	swap.NewSwapService(swapLedger, stores.Profiles, reviewService, hub, authMiddleware).SetupRoutes(app)
	chat.NewChatService(chatService, deriver, stores.Profiles, authMiddleware).SetupRoutes(app)

	if cloudinaryService, err := cloudinary.NewCloudinaryService(cfg, authMiddleware); err != nil {
		log.Printf("⚠️ Загрузка аватаров отключена: %v", err)
	} else {
		cloudinaryService.SetupRoutes(app)
	}

	// WebSocket работает на отдельном порту поверх net/http
	wsMux := http.NewServeMux()
	wsMux.Handle("/ws", hub.Handler(func(r *http.Request, token string) (uuid.UUID, error) {
		raw, err := jwtService.ExtractUserID(token)
		if err != nil {
			return uuid.Nil, err
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, err
		}
		ok, err := stores.Sessions.Exists(r.Context(), userID)
		if err != nil {
			return uuid.Nil, err
		}
		if !ok {
			return uuid.Nil, errors.New("сессия завершена")
		}
		return userID, nil
	}))
	wsServer := &http.Server{
		Addr:              ":" + cfg.ServerConfig.WSPort,
		Handler:           wsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("✅ SkillSwap API запущен на порту %s", cfg.ServerConfig.Port)
		return app.Listen(":" + cfg.ServerConfig.Port)
	})

	g.Go(func() error {
		log.Printf("✅ WebSocket сервер запущен на порту %s", cfg.ServerConfig.WSPort)
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Завершение работы...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		hub.Shutdown()
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ Ошибка остановки WebSocket сервера: %v", err)
		}
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("❌ Сервер остановлен с ошибкой: %v", err)
		return
	}
	log.Println("✅ Сервер остановлен")
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
