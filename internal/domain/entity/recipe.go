package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe receta con su HPP derivado y precio de venta.
type Recipe struct {
	ID               string
	UserID           string
	Name             string
	Servings         int
	CostPerUnit      decimal.Decimal // HPP por unidad, derivado
	SellingPrice     decimal.Decimal
	MarginPercentage decimal.Decimal // derivado
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecipeIngredient línea de receta (join receta ↔ ingrediente).
// Ingredient llega anidado y normalizado desde el store; es nil cuando el
// ingrediente referenciado ya no existe (la línea se costea en cero y el
// snapshot queda marcado como degradado).
type RecipeIngredient struct {
	RecipeID     string
	IngredientID string
	Quantity     decimal.Decimal // expresada en la unidad del ingrediente
	Unit         string
	Ingredient   *Ingredient
}

// RecipeDetail receta con sus líneas de ingredientes ya resueltas.
type RecipeDetail struct {
	Recipe      Recipe
	Ingredients []RecipeIngredient
}
