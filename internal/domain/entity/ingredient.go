package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient materia prima con su costo derivado.
// WeightedAverageCost solo lo recalcula el motor de costeo (dominio costing),
// nunca se escribe de forma ad hoc.
type Ingredient struct {
	ID                  string
	UserID              string
	Name                string
	Unit                string          // kg, g, liter, ml, unidad
	CurrentStock        decimal.Decimal // cantidad en mano
	PricePerUnit        decimal.Decimal // último precio de lista cotizado
	WeightedAverageCost decimal.Decimal // derivado; siempre >= 0
	IsActive            bool            // desactivación suave; nunca se borra mientras una receta lo referencie
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
