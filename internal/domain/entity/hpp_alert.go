package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de alerta de HPP.
const (
	AlertPriceIncrease = "PRICE_INCREASE"
	AlertPriceDecrease = "PRICE_DECREASE"
)

// HppAlert alerta generada cuando el delta entre los dos snapshots más
// recientes de una receta supera el umbral configurado. Se persiste; el
// fan-out de notificaciones lo hace un colaborador aguas abajo.
type HppAlert struct {
	ID               string
	RecipeID         string
	UserID           string
	AlertType        string // PRICE_INCREASE, PRICE_DECREASE
	Message          string
	OldValue         decimal.Decimal
	NewValue         decimal.Decimal
	ChangePercentage decimal.Decimal
	IsRead           bool
	CreatedAt        time.Time
}
