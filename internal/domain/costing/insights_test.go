package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// TestGeneratePricingInsights_PreciosEstables verifica que con compras a
// precio constante los tres métodos coinciden y se recomienda el promedio
// ponderado de historial completo.
func TestGeneratePricingInsights_PreciosEstables(t *testing.T) {
	ing := buildTestIngredient()
	txs := []*entity.StockTransaction{
		buildPurchase("10", "100", day(1)),
		buildPurchase("10", "100", day(2)),
		buildPurchase("10", "100", day(3)),
	}

	insight := costing.GeneratePricingInsights(ing, txs, 5, decimal.NewFromInt(10))

	assert.Equal(t, "weighted", insight.Method)
	assert.False(t, insight.Volatile)
	assert.True(t, decimal.NewFromInt(100).Equal(insight.SuggestedPrice))
	assert.True(t, insight.WeightedAverage.Equal(insight.FIFOAverage))
	assert.True(t, insight.WeightedAverage.Equal(insight.MovingAverage))
}

// TestGeneratePricingInsights_MetodosDivergentes verifica la señal de
// volatilidad: si un uso agota la capa barata, FIFO (200) diverge del
// ponderado (150) en 33% > umbral 10% y el método sugerido pasa a móvil.
func TestGeneratePricingInsights_MetodosDivergentes(t *testing.T) {
	ing := buildTestIngredient()
	txs := []*entity.StockTransaction{
		buildPurchase("10", "100", day(1)),
		buildPurchase("10", "200", day(2)),
		buildUsage("10", day(3)),
	}

	insight := costing.GeneratePricingInsights(ing, txs, 5, decimal.NewFromInt(10))

	assert.True(t, insight.Volatile, "divergencia FIFO/ponderado del 33%% debe marcar volatilidad")
	assert.Equal(t, "moving", insight.Method)
	assert.True(t, decimal.NewFromInt(150).Equal(insight.SuggestedPrice),
		"el promedio móvil de 100 y 200 es 150, fue %s", insight.SuggestedPrice)
	assert.True(t, decimal.NewFromInt(200).Equal(insight.FIFOAverage))
	assert.NotEmpty(t, insight.Recommendations)
}

// TestGeneratePricingInsights_CoeficienteVolatilidad verifica la
// recomendación por fluctuación: precios 100 y 200 dan CV 0.3333 > 0.15.
func TestGeneratePricingInsights_CoeficienteVolatilidad(t *testing.T) {
	ing := buildTestIngredient()
	txs := []*entity.StockTransaction{
		buildPurchase("10", "100", day(1)),
		buildPurchase("10", "200", day(2)),
	}

	insight := costing.GeneratePricingInsights(ing, txs, 5, decimal.NewFromInt(10))

	assert.True(t, insight.Volatility.Coefficient.GreaterThan(decimal.NewFromFloat(0.15)),
		"CV de precios 100/200 debe superar 0.15, fue %s", insight.Volatility.Coefficient)
	assert.NotEmpty(t, insight.Recommendations)
}

func TestGeneratePricingInsights_SinHistorial(t *testing.T) {
	ing := buildTestIngredient()

	insight := costing.GeneratePricingInsights(ing, nil, 5, decimal.NewFromInt(10))

	assert.True(t, ing.PricePerUnit.Equal(insight.SuggestedPrice),
		"sin compras la sugerencia cae al precio de lista")
	assert.False(t, insight.Volatile)
}

// TestSuggestSellingPrices_Redondeos verifica los tres niveles: 30% y 60%
// redondeados hacia arriba a 500, 100% a 1000.
func TestSuggestSellingPrices_Redondeos(t *testing.T) {
	tiers := costing.SuggestSellingPrices(decimal.NewFromInt(1234))

	require.Len(t, tiers, 3)
	// 1234×1.3 = 1604.2 → 2000; ×1.6 = 1974.4 → 2000; ×2 = 2468 → 3000.
	assert.Equal(t, "economy", tiers[0].Tier)
	assert.True(t, decimal.NewFromInt(2000).Equal(tiers[0].Price), "economy fue %s", tiers[0].Price)
	assert.Equal(t, 30, tiers[0].MarginPct)

	assert.Equal(t, "standard", tiers[1].Tier)
	assert.True(t, decimal.NewFromInt(2000).Equal(tiers[1].Price), "standard fue %s", tiers[1].Price)

	assert.Equal(t, "premium", tiers[2].Tier)
	assert.True(t, decimal.NewFromInt(3000).Equal(tiers[2].Price), "premium fue %s", tiers[2].Price)
}

// TestSuggestSellingPrices_MultiploExactoNoSube verifica que un valor ya
// alineado al escalón no se redondea un escalón de más.
func TestSuggestSellingPrices_MultiploExactoNoSube(t *testing.T) {
	tiers := costing.SuggestSellingPrices(decimal.NewFromInt(1000))

	// 1000×2 = 2000: múltiplo exacto de 1000, queda en 2000.
	assert.True(t, decimal.NewFromInt(2000).Equal(tiers[2].Price))
}
