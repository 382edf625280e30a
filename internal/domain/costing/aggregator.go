package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// OverheadPolicy política de amortización de costos operacionales.
// El divisor de asignación por unidad es configurable (no hay una fórmula
// de negocio documentada): el llamador puede traer una señal de volumen
// mensual real y si no existe se usa el volumen por defecto.
type OverheadPolicy struct {
	MonthlyUnitVolume        decimal.Decimal // señal del llamador; <= 0 usa el default
	DefaultMonthlyUnitVolume decimal.Decimal
}

// Volume devuelve el divisor efectivo (mínimo 1 para no dividir por cero).
func (p OverheadPolicy) Volume() decimal.Decimal {
	v := p.MonthlyUnitVolume
	if v.LessThanOrEqual(decimal.Zero) {
		v = p.DefaultMonthlyUnitVolume
	}
	if v.LessThanOrEqual(decimal.Zero) {
		v = decimal.NewFromInt(1)
	}
	return v
}

// AggregateInput entradas del agregador de costo de receta. Todo resuelto de
// antemano: la función es pura y no toca el store.
type AggregateInput struct {
	Recipe          entity.Recipe
	Lines           []entity.RecipeIngredient
	IngredientCosts map[string]decimal.Decimal // ingredientID → costo unitario vigente
	ActiveCosts     []*entity.OperationalCost
	Policy          OverheadPolicy
}

// AggregateResult HPP de la receta con su desglose.
type AggregateResult struct {
	MaterialCost           decimal.Decimal
	OperationalCostPerUnit decimal.Decimal
	OperationalCost        decimal.Decimal // por lote: perUnit × porciones
	HppValue               decimal.Decimal // material + operacional
	CostPerServing         decimal.Decimal
	MarginPercentage       decimal.Decimal
	Degraded               bool
	MissingIngredients     []string
}

// AggregateRecipeCost suma el costo de materiales de la receta más la porción
// amortizada de costos operacionales en una sola cifra de HPP.
// Una línea cuyo ingrediente no tiene costo resuelto se costea en cero y el
// resultado queda marcado como degradado: el HPP nunca se queda pegado en un
// valor viejo porque falte un ingrediente.
func AggregateRecipeCost(in AggregateInput) AggregateResult {
	res := AggregateResult{}

	for _, line := range in.Lines {
		cost, ok := in.IngredientCosts[line.IngredientID]
		if !ok || line.Ingredient == nil {
			res.Degraded = true
			res.MissingIngredients = append(res.MissingIngredients, line.IngredientID)
			continue
		}
		qty := line.Quantity
		if qty.LessThan(decimal.Zero) {
			qty = decimal.Zero
		}
		res.MaterialCost = res.MaterialCost.Add(cost.Mul(qty))
	}

	// Normalizar cada costo activo a mensual y repartirlo entre el volumen
	// mensual esperado de unidades.
	monthlyTotal := decimal.Zero
	for _, c := range in.ActiveCosts {
		if c == nil || !c.IsActive {
			continue
		}
		monthlyTotal = monthlyTotal.Add(c.MonthlyAmount())
	}
	res.OperationalCostPerUnit = decimal.Zero
	if monthlyTotal.GreaterThan(decimal.Zero) {
		res.OperationalCostPerUnit = monthlyTotal.Div(in.Policy.Volume()).Round(4)
	}

	servings := in.Recipe.Servings
	if servings < 1 {
		servings = 1
	}
	servingsDec := decimal.NewFromInt(int64(servings))

	res.OperationalCost = res.OperationalCostPerUnit.Mul(servingsDec)
	res.HppValue = res.MaterialCost.Add(res.OperationalCost)
	res.CostPerServing = res.MaterialCost.Div(servingsDec).Round(4)

	if in.Recipe.SellingPrice.GreaterThan(decimal.Zero) {
		hppPerUnit := res.HppValue.Div(servingsDec)
		res.MarginPercentage = in.Recipe.SellingPrice.Sub(hppPerUnit).
			Div(in.Recipe.SellingPrice).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return res
}
