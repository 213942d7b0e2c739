package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cristhlr/ServiTrack-api/internal/application/advisory"
	appanalytics "github.com/cristhlr/ServiTrack-api/internal/application/analytics"
	"github.com/cristhlr/ServiTrack-api/internal/application/reports"
	"github.com/cristhlr/ServiTrack-api/internal/application/session"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionSvc  *session.Service
	WorkTimer   *session.WorkTimer
	SubmitUC    *reports.SubmitUseCase
	StatusUC    *reports.StatusUseCase
	CalendarUC  *reports.CalendarUseCase
	ExportUC    *reports.ExportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	AdvisoryUC  *advisory.UseCase
	Hub         *Hub // nil desactiva el endpoint websocket
	JWT         config.JWTConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	sessionHandler := NewSessionHandler(deps.SessionSvc, deps.JWT)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", sessionHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWT.Secret))

	protected.Post("/auth/logout", sessionHandler.Logout)

	// Perfil activo (protegido)
	profile := protected.Group("/profile")
	profile.Get("/me", sessionHandler.Me)
	profile.Patch("/me", sessionHandler.UpdateProfile)

	// Directorio de usuarios (protegido; alta solo admin/superuser)
	users := protected.Group("/users")
	users.Get("/", sessionHandler.ListUsers)
	users.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSuperuser), sessionHandler.CreateUser)

	// Reportes (protegido; cambio de estado restringido por rol)
	reportHandler := NewReportHandler(deps.SubmitUC, deps.StatusUC, deps.ExportUC)
	reportsGroup := protected.Group("/reports")
	reportsGroup.Post("/mantenimiento", reportHandler.SubmitMantenimiento)
	reportsGroup.Post("/inspeccion", reportHandler.SubmitInspeccion)
	reportsGroup.Post("/orden-trabajo", reportHandler.SubmitOrdenTrabajo)
	reportsGroup.Post("/reparacion", reportHandler.SubmitReparacion)
	reportsGroup.Get("/", reportHandler.List)
	reportsGroup.Get("/:id", reportHandler.GetByID)
	reportsGroup.Get("/:id/pdf", reportHandler.ExportPDF)
	reportsGroup.Patch("/:id/status",
		RequireRole(entity.RoleAdmin, entity.RoleSuperuser, entity.RoleSupervisor),
		reportHandler.ChangeStatus)

	// Dashboard (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Calendario (protegido)
	calendarHandler := NewCalendarHandler(deps.CalendarUC)
	protected.Get("/calendar", calendarHandler.GetMonth)

	// Asesor IA (protegido)
	advisoryHandler := NewAdvisoryHandler(deps.AdvisoryUC)
	aiGroup := protected.Group("/ai")
	aiGroup.Post("/suggest-form", advisoryHandler.SuggestForm)
	aiGroup.Post("/troubleshoot", advisoryHandler.Troubleshoot)

	// Timer de trabajo (protegido)
	timerHandler := NewTimerHandler(deps.WorkTimer)
	timerGroup := protected.Group("/timer")
	timerGroup.Get("/", timerHandler.Status)
	timerGroup.Post("/start", timerHandler.Start)
	timerGroup.Post("/stop", timerHandler.Stop)

	// Notificaciones en tiempo real (opcional; requiere Redis)
	if deps.Hub != nil {
		app.Use("/ws/notifications", UpgradeRequired)
		app.Get("/ws/notifications", deps.Hub.Handler())
	}
}
