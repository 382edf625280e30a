package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/cascade"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/pkg/validator"
)

// EventHandler recibe eventos del bus externo y los entrega al despachador de
// cascada.
type EventHandler struct {
	dispatcher *cascade.Dispatcher
}

// NewEventHandler construye el handler.
func NewEventHandler(dispatcher *cascade.Dispatcher) *EventHandler {
	return &EventHandler{dispatcher: dispatcher}
}

// Dispatch godoc
// @Summary      Despachar un evento de dominio
// @Description  Resuelve las recetas afectadas por el evento y conduce su
//
//	recálculo por chunks. Un fallo individual no detiene la cascada:
//	el resumen detalla el subconjunto fallido para reintentos.
//
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DispatchEventRequest  true  "kind, entity_id, payload"
// @Success      200  {object}  dto.DispatchSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/events [post]
func (h *EventHandler) Dispatch(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario requerido"})
	}

	var in dto.DispatchEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: fmt.Sprintf("campo %s inválido (%s)", errs[0].FailedField, errs[0].Tag),
		})
	}

	// El user_id del cuerpo solo se respeta si coincide con la identidad de la
	// petición; el bus puede omitirlo.
	ev := entity.WorkflowEvent{
		Kind:      entity.EventKind(in.Kind),
		EntityID:  in.EntityID,
		UserID:    userID,
		Payload:   in.Payload,
		Timestamp: in.Timestamp,
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	summary, err := h.dispatcher.Dispatch(c.Context(), ev)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEvent) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_EVENT", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := dto.DispatchSummaryDTO{
		Kind:         string(summary.Kind),
		TotalRecipes: summary.TotalRecipes,
		SuccessCount: summary.SuccessCount,
		Failures:     make([]dto.DispatchFailureDTO, 0, len(summary.Failures)),
		ElapsedMs:    summary.Elapsed.Milliseconds(),
	}
	for _, f := range summary.Failures {
		out.Failures = append(out.Failures, dto.DispatchFailureDTO{RecipeID: f.RecipeID, Error: f.Err})
	}
	return c.JSON(out)
}
