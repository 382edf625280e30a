package costing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// Primitivas de costeo: funciones puras sobre (ingrediente, transacciones).
// Ningún método muta sus entradas; recalcular sobre la misma lista produce
// siempre el mismo valor. Toda primitiva tolera lista vacía devolviendo el
// precio de lista del ingrediente (nunca NaN ni división por cero).

// WeightedAverageResult resultado del costo promedio ponderado.
type WeightedAverageResult struct {
	Price         decimal.Decimal
	TotalQuantity decimal.Decimal
	TotalValue    decimal.Decimal
	Purchases     int
}

// WeightedAveragePrice costo promedio ponderado sobre el historial completo
// de compras: Σ(qty×precio) / Σ(qty) en orden cronológico.
// Sin compras válidas devuelve el último precio de lista del ingrediente.
func WeightedAveragePrice(ing *entity.Ingredient, txs []*entity.StockTransaction) WeightedAverageResult {
	purchases := sortedPurchases(txs)
	if len(purchases) == 0 {
		return WeightedAverageResult{Price: ing.PricePerUnit}
	}

	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, p := range purchases {
		qty := p.Quantity.Abs()
		totalQty = totalQty.Add(qty)
		totalValue = totalValue.Add(qty.Mul(p.UnitPrice))
	}
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return WeightedAverageResult{Price: ing.PricePerUnit}
	}

	return WeightedAverageResult{
		Price:         totalValue.Div(totalQty).Round(4),
		TotalQuantity: totalQty,
		TotalValue:    totalValue,
		Purchases:     len(purchases),
	}
}

// FIFOLayer capa de stock: cantidad restante a su precio de compra.
type FIFOLayer struct {
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalValue   decimal.Decimal
	PurchaseDate time.Time
	Reference    string
}

// FIFOResult valoración del stock restante bajo FIFO.
type FIFOResult struct {
	UnitCost          decimal.Decimal
	StockValue        decimal.Decimal
	RemainingQuantity decimal.Decimal
	Layers            []FIFOLayer
	NegativeStock     bool // el consumo acumulado superó a las compras (oversell)
}

// FIFOStockValue construye capas a partir de las compras y las consume en
// orden (la más antigua primero) reproduciendo usos y ajustes negativos.
// Valor restante / cantidad restante = costo unitario actual.
// Si el consumo excede las compras, la cantidad se fija en cero y se marca
// NegativeStock en lugar de fallar.
func FIFOStockValue(ing *entity.Ingredient, txs []*entity.StockTransaction) FIFOResult {
	ordered := sortedByDate(txs)

	// Reproducción cronológica: cada compra abre una capa; cada consumo
	// (uso o ajuste negativo) agota capas de la más antigua a la más nueva.
	var layers []FIFOLayer
	sawPurchase := false
	negative := false
	for _, t := range ordered {
		if t.IsPurchase() {
			sawPurchase = true
			qty := t.Quantity.Abs()
			layers = append(layers, FIFOLayer{
				Quantity:     qty,
				UnitPrice:    t.UnitPrice,
				TotalValue:   qty.Mul(t.UnitPrice),
				PurchaseDate: t.CreatedAt,
				Reference:    t.Reference,
			})
			continue
		}
		pending := t.ConsumedQuantity()
		for i := range layers {
			if pending.LessThanOrEqual(decimal.Zero) {
				break
			}
			if layers[i].Quantity.LessThanOrEqual(decimal.Zero) {
				continue
			}
			take := decimal.Min(layers[i].Quantity, pending)
			layers[i].Quantity = layers[i].Quantity.Sub(take)
			layers[i].TotalValue = layers[i].Quantity.Mul(layers[i].UnitPrice)
			pending = pending.Sub(take)
		}
		if pending.GreaterThan(decimal.Zero) {
			// Oversell: se fija en cero y se señala, no se lanza error.
			negative = true
		}
	}
	if !sawPurchase {
		return FIFOResult{UnitCost: ing.PricePerUnit}
	}

	remaining := make([]FIFOLayer, 0, len(layers))
	remainingQty := decimal.Zero
	stockValue := decimal.Zero
	for _, l := range layers {
		if l.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		remaining = append(remaining, l)
		remainingQty = remainingQty.Add(l.Quantity)
		stockValue = stockValue.Add(l.TotalValue)
	}

	unitCost := ing.PricePerUnit
	if remainingQty.GreaterThan(decimal.Zero) {
		unitCost = stockValue.Div(remainingQty).Round(4)
	}

	return FIFOResult{
		UnitCost:          unitCost,
		StockValue:        stockValue.Round(4),
		RemainingQuantity: remainingQty,
		Layers:            remaining,
		NegativeStock:     negative,
	}
}

// MovingAveragePrice promedio móvil de los precios unitarios de las últimas
// `window` compras. Más sensible a oscilaciones recientes que el promedio
// ponderado de historial completo. window <= 0 usa DefaultMovingAvgWindow.
func MovingAveragePrice(ing *entity.Ingredient, txs []*entity.StockTransaction, window int) decimal.Decimal {
	if window <= 0 {
		window = DefaultMovingAvgWindow
	}
	purchases := sortedPurchases(txs)
	if len(purchases) == 0 {
		return ing.PricePerUnit
	}
	if len(purchases) > window {
		purchases = purchases[len(purchases)-window:]
	}

	sum := decimal.Zero
	for _, p := range purchases {
		sum = sum.Add(p.UnitPrice)
	}
	return sum.Div(decimal.NewFromInt(int64(len(purchases)))).Round(4)
}

// DefaultMovingAvgWindow ventana por defecto del promedio móvil.
const DefaultMovingAvgWindow = 5

// sortedPurchases copia y ordena cronológicamente solo las compras válidas.
func sortedPurchases(txs []*entity.StockTransaction) []*entity.StockTransaction {
	out := make([]*entity.StockTransaction, 0, len(txs))
	for _, t := range txs {
		if t != nil && t.IsPurchase() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// sortedByDate copia y ordena todas las transacciones cronológicamente.
func sortedByDate(txs []*entity.StockTransaction) []*entity.StockTransaction {
	out := make([]*entity.StockTransaction, 0, len(txs))
	for _, t := range txs {
		if t != nil {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
