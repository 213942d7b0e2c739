package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cristhlr/ServiTrack-api/internal/application/advisory"
	appanalytics "github.com/cristhlr/ServiTrack-api/internal/application/analytics"
	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
	"github.com/cristhlr/ServiTrack-api/internal/application/reports"
	"github.com/cristhlr/ServiTrack-api/internal/application/session"
	infraai "github.com/cristhlr/ServiTrack-api/internal/infrastructure/ai"
	infrapdf "github.com/cristhlr/ServiTrack-api/internal/infrastructure/pdf"
	"github.com/cristhlr/ServiTrack-api/internal/infrastructure/postgres"
	"github.com/cristhlr/ServiTrack-api/internal/infrastructure/redisnotify"
	httpRouter "github.com/cristhlr/ServiTrack-api/internal/interfaces/http"
	"github.com/cristhlr/ServiTrack-api/pkg/config"
	"github.com/cristhlr/ServiTrack-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reportRepo := postgres.NewReportRepository(pool)
	kvRepo := postgres.NewKVRepository(pool)

	// Notificaciones en tiempo real (opcional): Redis pub/sub + websocket
	var (
		notifier ports.StatusNotifier
		hub      *httpRouter.Hub
	)
	if cfg.Redis.URL != "" {
		redisClient, err := redisnotify.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()

		notifier = redisnotify.NewNotifier(redisClient, cfg.Redis.Channel)
		hub = httpRouter.NewHub(log)
		go hub.Run(ctx, redisnotify.Subscribe(ctx, redisClient, cfg.Redis.Channel))
		log.Info().Str("channel", cfg.Redis.Channel).Msg("notificaciones en tiempo real activas")
	} else {
		log.Info().Msg("REDIS_URL no configurado; notificaciones en tiempo real desactivadas")
	}

	sessionSvc := session.NewService(ctx, kvRepo, log)
	workTimer := session.NewWorkTimer(kvRepo, log)

	submitUC := reports.NewSubmitUseCase(reportRepo)
	statusUC := reports.NewStatusUseCase(reportRepo, notifier, log)
	calendarUC := reports.NewCalendarUseCase(reportRepo)
	exportUC := reports.NewExportUseCase(reportRepo, infrapdf.NewMarotoReportGenerator())
	dashboardUC := appanalytics.NewDashboardUseCase(reportRepo)

	// Asesor IA: Anthropic por defecto, Gemini como alternativa
	var llm ports.LLMService
	if cfg.AI.Provider == "gemini" {
		llm = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	} else {
		llm = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}
	advisoryUC := advisory.NewUseCase(llm)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ServiTrack API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SessionSvc:  sessionSvc,
		WorkTimer:   workTimer,
		SubmitUC:    submitUC,
		StatusUC:    statusUC,
		CalendarUC:  calendarUC,
		ExportUC:    exportUC,
		DashboardUC: dashboardUC,
		AdvisoryUC:  advisoryUC,
		Hub:         hub,
		JWT:         cfg.JWT,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
