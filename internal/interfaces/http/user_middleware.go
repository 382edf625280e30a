package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/dto"
)

// Locals key para UserID en Fiber.
const LocalUserID = "user_id"

// UserMiddleware extrae el usuario del header X-User-ID a c.Locals. El gateway
// upstream ya autenticó la petición; aquí solo se exige la identidad para
// particionar costos, alertas y recetas por usuario.
func UserMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_USER", Message: "header X-User-ID requerido"})
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
