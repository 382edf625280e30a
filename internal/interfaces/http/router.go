package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/cascade"
	"github.com/jhoicas/costeo-api/internal/application/hpp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecalculateUC *hpp.RecalculateUseCase
	CostImpactUC  *hpp.CostImpactUseCase
	QueryUC       *hpp.QueryUseCase
	Dispatcher    *cascade.Dispatcher
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todo el API exige identidad de usuario (el gateway upstream autentica).
	api := app.Group("/api", UserMiddleware())

	hppHandler := NewHppHandler(deps.RecalculateUC, deps.CostImpactUC, deps.QueryUC)

	recipes := api.Group("/hpp/recipes")
	recipes.Post("/:id/recalculate", hppHandler.Recalculate)
	recipes.Get("/:id/cost-impact", hppHandler.CostImpact)
	recipes.Get("/:id/snapshots", hppHandler.Snapshots)

	alerts := api.Group("/hpp/alerts")
	alerts.Get("/", hppHandler.Alerts)
	alerts.Post("/:id/read", hppHandler.MarkAlertRead)

	api.Get("/hpp/ingredients/:id/pricing-insights", hppHandler.PricingInsights)

	// Eventos del bus externo → despachador de cascada.
	eventHandler := NewEventHandler(deps.Dispatcher)
	api.Post("/events", eventHandler.Dispatch)
}
