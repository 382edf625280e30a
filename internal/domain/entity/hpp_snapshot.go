package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HppSnapshot foto inmutable del HPP de una receta en un punto del tiempo.
// Append-only: cada recálculo inserta una fila nueva, nunca se actualiza una
// existente. Las consultas de tendencia son simples range scans por fecha.
type HppSnapshot struct {
	ID                 string
	RecipeID           string
	UserID             string
	SnapshotDate       time.Time
	HppValue           decimal.Decimal // material + operacional
	MaterialCost       decimal.Decimal
	OperationalCost    decimal.Decimal
	CostPerServing     decimal.Decimal
	MarginPercentage   decimal.Decimal
	Degraded           bool     // calculado con fallback (ingrediente faltante a costo cero)
	MissingIngredients []string // ids de ingredientes que se costearon en cero
	CreatedAt          time.Time
}
