package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/hpp"
	"github.com/jhoicas/costeo-api/internal/domain"
)

// HppHandler maneja las peticiones HTTP del motor de costeo (protegido).
type HppHandler struct {
	recalc  *hpp.RecalculateUseCase
	impact  *hpp.CostImpactUseCase
	queries *hpp.QueryUseCase
}

// NewHppHandler construye el handler.
func NewHppHandler(recalc *hpp.RecalculateUseCase, impact *hpp.CostImpactUseCase, queries *hpp.QueryUseCase) *HppHandler {
	return &HppHandler{recalc: recalc, impact: impact, queries: queries}
}

// Recalculate godoc
// @Summary      Recalcular el HPP de una receta
// @Description  Lee el historial de compras de cada ingrediente, agrega costos
//
//	operacionales amortizados e inserta un snapshot nuevo (append-only).
//	Si el delta contra el snapshot anterior supera el umbral, genera alerta.
//
// @Tags         hpp
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      201  {object}  dto.SnapshotDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/hpp/recipes/{id}/recalculate [post]
func (h *HppHandler) Recalculate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario requerido"})
	}

	snap, err := h.recalc.Recalculate(c.Context(), c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SnapshotDTO{
		ID:                 snap.ID,
		RecipeID:           snap.RecipeID,
		SnapshotDate:       snap.SnapshotDate,
		HppValue:           snap.HppValue,
		MaterialCost:       snap.MaterialCost,
		OperationalCost:    snap.OperationalCost,
		CostPerServing:     snap.CostPerServing,
		MarginPercentage:   snap.MarginPercentage,
		Degraded:           snap.Degraded,
		MissingIngredients: snap.MissingIngredients,
	})
}

// CostImpact godoc
// @Summary      Impacto del último cambio de precios sobre una receta
// @Description  Compara los dos precios de compra más recientes de cada
//
//	ingrediente y traduce el delta a impacto monetario. Solo lectura.
//
// @Tags         hpp
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.CostImpactReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/hpp/recipes/{id}/cost-impact [get]
func (h *HppHandler) CostImpact(c *fiber.Ctx) error {
	report, err := h.impact.CostImpact(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// Snapshots godoc
// @Summary      Tendencia de HPP de una receta
// @Tags         hpp
// @Produce      json
// @Param        id    path   string  true   "ID de la receta"
// @Param        days  query  int     false  "Días hacia atrás (default 30)"
// @Success      200  {array}  dto.SnapshotDTO
// @Router       /api/hpp/recipes/{id}/snapshots [get]
func (h *HppHandler) Snapshots(c *fiber.Ctx) error {
	snapshots, err := h.queries.Snapshots(c.Context(), c.Params("id"), c.QueryInt("days"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(snapshots), "snapshots": snapshots})
}

// Alerts godoc
// @Summary      Alertas de cambio de HPP del usuario
// @Tags         hpp
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídas"
// @Param        limit   query  int   false  "Máximo de alertas (default 50)"
// @Success      200  {array}  dto.AlertDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/hpp/alerts [get]
func (h *HppHandler) Alerts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario requerido"})
	}

	alerts, err := h.queries.Alerts(c.Context(), userID, c.QueryBool("unread"), c.QueryInt("limit"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// MarkAlertRead godoc
// @Summary      Marcar una alerta como leída
// @Tags         hpp
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/hpp/alerts/{id}/read [post]
func (h *HppHandler) MarkAlertRead(c *fiber.Ctx) error {
	if err := h.queries.MarkAlertRead(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "alerta marcada como leída"})
}

// PricingInsights godoc
// @Summary      Recomendación de precio para un ingrediente
// @Description  Compara promedio ponderado, FIFO y promedio móvil, señala
//
//	volatilidad cuando divergen y sugiere niveles de precio de venta.
//
// @Tags         hpp
// @Produce      json
// @Param        id  path  string  true  "ID del ingrediente"
// @Success      200  {object}  dto.PricingInsightDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/hpp/ingredients/{id}/pricing-insights [get]
func (h *HppHandler) PricingInsights(c *fiber.Ctx) error {
	insight, err := h.queries.PricingInsights(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrIngredientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ingrediente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(insight)
}
