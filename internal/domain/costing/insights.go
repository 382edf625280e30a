package costing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// DefaultDivergencePct divergencia máxima entre métodos antes de señalar
// volatilidad (porcentaje).
var DefaultDivergencePct = decimal.NewFromInt(10)

// PriceVolatility coeficiente de variación de los precios de compra.
type PriceVolatility struct {
	Coefficient decimal.Decimal // desviación estándar / media
	StdDev      decimal.Decimal
	Mean        decimal.Decimal
}

// PricingInsight recomendación estructurada de precio para HPP.
type PricingInsight struct {
	Method          string // weighted, fifo, moving
	SuggestedPrice  decimal.Decimal
	Rationale       string
	WeightedAverage decimal.Decimal
	FIFOAverage     decimal.Decimal
	MovingAverage   decimal.Decimal
	ListPrice       decimal.Decimal
	Volatility      PriceVolatility
	Volatile        bool // los métodos divergen más que divergencePct
	Recommendations []string
}

// GeneratePricingInsights compara los tres métodos de costeo y produce una
// recomendación con señal de volatilidad cuando divergen más de divergencePct
// (por defecto 10%). Función pura: no toca el store.
func GeneratePricingInsights(
	ing *entity.Ingredient,
	txs []*entity.StockTransaction,
	window int,
	divergencePct decimal.Decimal,
) PricingInsight {
	if divergencePct.LessThanOrEqual(decimal.Zero) {
		divergencePct = DefaultDivergencePct
	}

	weighted := WeightedAveragePrice(ing, txs).Price
	fifo := FIFOStockValue(ing, txs).UnitCost
	moving := MovingAveragePrice(ing, txs, window)
	volatility := purchaseVolatility(txs)

	insight := PricingInsight{
		Method:          "moving",
		SuggestedPrice:  moving,
		Rationale:       "promedio móvil: refleja las compras recientes sin perder estabilidad",
		WeightedAverage: weighted,
		FIFOAverage:     fifo,
		MovingAverage:   moving,
		ListPrice:       ing.PricePerUnit,
		Volatility:      volatility,
	}

	// Divergencia máxima entre pares de métodos, relativa al menor valor.
	divergence := methodDivergencePct(weighted, fifo, moving)
	if divergence.GreaterThan(divergencePct) {
		insight.Volatile = true
		insight.Recommendations = append(insight.Recommendations,
			"los métodos de costeo divergen más del umbral: revisar el método usado para HPP")
	}

	if volatility.Coefficient.GreaterThan(decimal.NewFromFloat(0.15)) {
		insight.Recommendations = append(insight.Recommendations,
			"precio de compra fluctuante: preferir promedio móvil para el HPP")
	}
	if ing.PricePerUnit.GreaterThan(decimal.Zero) &&
		weighted.GreaterThan(ing.PricePerUnit.Mul(decimal.NewFromFloat(1.1))) {
		insight.Recommendations = append(insight.Recommendations,
			"el promedio ponderado supera el precio de lista en más de 10%: actualizar la lista de precios")
	}

	// Cuando es estable, el ponderado de historial completo es el método por defecto.
	if !insight.Volatile {
		insight.Method = "weighted"
		insight.SuggestedPrice = weighted
		insight.Rationale = "promedio ponderado: precios estables, el historial completo es representativo"
	}

	return insight
}

// PriceTier sugerencia de precio de venta escalonada por margen.
type PriceTier struct {
	Tier      string // economy, standard, premium
	Price     decimal.Decimal
	MarginPct int
}

// SuggestSellingPrices tres niveles de precio sobre el HPP por porción:
// 30% redondeado a 500, 60% redondeado a 500 y 100% redondeado a 1000.
func SuggestSellingPrices(hppPerServing decimal.Decimal) []PriceTier {
	return []PriceTier{
		{Tier: "economy", Price: roundUpTo(hppPerServing.Mul(decimal.NewFromFloat(1.3)), 500), MarginPct: 30},
		{Tier: "standard", Price: roundUpTo(hppPerServing.Mul(decimal.NewFromFloat(1.6)), 500), MarginPct: 60},
		{Tier: "premium", Price: roundUpTo(hppPerServing.Mul(decimal.NewFromInt(2)), 1000), MarginPct: 100},
	}
}

func roundUpTo(v decimal.Decimal, step int64) decimal.Decimal {
	s := decimal.NewFromInt(step)
	return v.Div(s).Ceil().Mul(s)
}

// purchaseVolatility coeficiente de variación de los precios unitarios de compra.
func purchaseVolatility(txs []*entity.StockTransaction) PriceVolatility {
	purchases := sortedPurchases(txs)
	if len(purchases) < 2 {
		v := PriceVolatility{}
		if len(purchases) == 1 {
			v.Mean = purchases[0].UnitPrice
		}
		return v
	}

	n := decimal.NewFromInt(int64(len(purchases)))
	sum := decimal.Zero
	for _, p := range purchases {
		sum = sum.Add(p.UnitPrice)
	}
	mean := sum.Div(n)

	variance := decimal.Zero
	for _, p := range purchases {
		d := p.UnitPrice.Sub(mean)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.Div(n)

	// Sqrt vía float64: la volatilidad es una señal, no un monto contable.
	stdDev := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))

	coefficient := decimal.Zero
	if mean.GreaterThan(decimal.Zero) {
		coefficient = stdDev.Div(mean).Round(4)
	}
	return PriceVolatility{Coefficient: coefficient, StdDev: stdDev.Round(2), Mean: mean.Round(2)}
}

// methodDivergencePct divergencia porcentual máxima entre los tres métodos.
func methodDivergencePct(a, b, c decimal.Decimal) decimal.Decimal {
	lo, hi := a, a
	for _, v := range []decimal.Decimal{b, c} {
		if v.LessThan(lo) {
			lo = v
		}
		if v.GreaterThan(hi) {
			hi = v
		}
	}
	if lo.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return hi.Sub(lo).Div(lo).Mul(decimal.NewFromInt(100))
}
