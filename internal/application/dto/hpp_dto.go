package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispatchEventRequest cuerpo del endpoint de despacho de eventos.
// El bus externo entrega el evento; aquí solo se valida su forma.
type DispatchEventRequest struct {
	Kind      string            `json:"kind" validate:"required"`
	EntityID  string            `json:"entity_id"`
	UserID    string            `json:"user_id"`
	Payload   map[string]string `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

// DispatchFailureDTO fallo por receta dentro de un despacho.
type DispatchFailureDTO struct {
	RecipeID string `json:"recipe_id"`
	Error    string `json:"error"`
}

// DispatchSummaryDTO resumen del fan-out: única fuente de verdad de cuántas
// recetas se recalcularon y cuáles fallaron (suficiente para reintentar solo
// el subconjunto fallido).
type DispatchSummaryDTO struct {
	Kind         string               `json:"kind"`
	TotalRecipes int                  `json:"total_recipes"`
	SuccessCount int                  `json:"success_count"`
	Failures     []DispatchFailureDTO `json:"failures"`
	ElapsedMs    int64                `json:"elapsed_ms"`
}

// SnapshotDTO snapshot de HPP serializado para la API.
type SnapshotDTO struct {
	ID                 string          `json:"id"`
	RecipeID           string          `json:"recipe_id"`
	SnapshotDate       time.Time       `json:"snapshot_date"`
	HppValue           decimal.Decimal `json:"hpp_value"`
	MaterialCost       decimal.Decimal `json:"material_cost"`
	OperationalCost    decimal.Decimal `json:"operational_cost"`
	CostPerServing     decimal.Decimal `json:"cost_per_serving"`
	MarginPercentage   decimal.Decimal `json:"margin_percentage"`
	Degraded           bool            `json:"degraded"`
	MissingIngredients []string        `json:"missing_ingredients,omitempty"`
}

// AlertDTO alerta de HPP serializada para la API.
type AlertDTO struct {
	ID               string          `json:"id"`
	RecipeID         string          `json:"recipe_id"`
	AlertType        string          `json:"alert_type"`
	Message          string          `json:"message"`
	OldValue         decimal.Decimal `json:"old_value"`
	NewValue         decimal.Decimal `json:"new_value"`
	ChangePercentage decimal.Decimal `json:"change_percentage"`
	IsRead           bool            `json:"is_read"`
	CreatedAt        time.Time       `json:"created_at"`
}

// IngredientImpactDTO impacto del último cambio de precio de un ingrediente
// sobre una receta.
type IngredientImpactDTO struct {
	IngredientID  string           `json:"ingredient_id"`
	Name          string           `json:"name"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Unit          string           `json:"unit"`
	LatestPrice   decimal.Decimal  `json:"latest_price"`
	PreviousPrice decimal.Decimal  `json:"previous_price"`
	ChangeAmount  decimal.Decimal  `json:"change_amount"`
	ChangePercent *decimal.Decimal `json:"change_percent"` // null cuando el precio anterior es 0
	ImpactAmount  decimal.Decimal  `json:"impact_amount"`
	LastPurchase  *time.Time       `json:"last_purchase,omitempty"`
}

// PriceTierDTO nivel de precio de venta sugerido.
type PriceTierDTO struct {
	Tier      string          `json:"tier"`
	Price     decimal.Decimal `json:"price"`
	MarginPct int             `json:"margin_pct"`
}

// PricingInsightDTO recomendación de precio por ingrediente: compara los tres
// métodos de costeo y señala volatilidad cuando divergen.
type PricingInsightDTO struct {
	IngredientID    string          `json:"ingredient_id"`
	Method          string          `json:"method"`
	SuggestedPrice  decimal.Decimal `json:"suggested_price"`
	Rationale       string          `json:"rationale"`
	WeightedAverage decimal.Decimal `json:"weighted_average"`
	FIFOAverage     decimal.Decimal `json:"fifo_average"`
	MovingAverage   decimal.Decimal `json:"moving_average"`
	ListPrice       decimal.Decimal `json:"list_price"`
	Volatile        bool            `json:"volatile"`
	VolatilityCoeff decimal.Decimal `json:"volatility_coefficient"`
	Recommendations []string        `json:"recommendations,omitempty"`
	SuggestedTiers  []PriceTierDTO  `json:"suggested_tiers,omitempty"`
}

// CostImpactReport reporte de solo lectura: traduce el delta de los dos
// precios de compra más recientes de cada ingrediente a impacto monetario
// por receta. Nunca muta estado.
type CostImpactReport struct {
	RecipeID          string                `json:"recipe_id"`
	RecipeName        string                `json:"recipe_name"`
	Ingredients       []IngredientImpactDTO `json:"ingredients"`
	PriceChangeImpact decimal.Decimal       `json:"price_change_impact"`
	LastPriceUpdate   time.Time             `json:"last_price_update"`
}
