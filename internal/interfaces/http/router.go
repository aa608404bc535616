package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/integration"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	Enrollment  *enrollment.UseCase
	Integration *integration.UseCase
	Auth        AuthConfig
	ServiceName string
	Log         *logger.Logger
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Rotas protegidas (Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.Auth))

	enrollments := api.Group("/enrollments")
	eh := NewEnrollmentHandler(deps.Enrollment, log)
	enrollments.Post("/", eh.Start)
	enrollments.Get("/", eh.List)

	one := enrollments.Group("/:id", eh.RequireOwner)
	one.Get("/", eh.Get)
	one.Get("/status", eh.Status)
	one.Put("/primary-address", eh.PrimaryAddress)
	one.Put("/second-guardian", eh.SecondGuardian)
	one.Put("/second-guardian/address", eh.SecondGuardianAddress)
	one.Put("/student", eh.Student)
	one.Put("/students/:studentId/address", eh.StudentAddress)
	one.Get("/receipt", eh.Receipt)

	if deps.Integration != nil {
		ih := NewIntegrationHandler(deps.Integration, log)
		one.Post("/integration", ih.Integrate)
		one.Get("/integration/attempts", ih.Attempts)
	}
}
