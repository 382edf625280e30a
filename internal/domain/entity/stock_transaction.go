package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock.
const (
	TxTypePurchase   = "PURCHASE"
	TxTypeAdjustment = "ADJUSTMENT"
	TxTypeUsage      = "USAGE"
)

// StockTransaction movimiento inmutable de stock de un ingrediente.
// La secuencia ordenada de transacciones por ingrediente es la única fuente
// de verdad para todos los métodos de costeo.
// Invariante en compras: TotalPrice ≈ Quantity × UnitPrice (tolerancia de redondeo).
type StockTransaction struct {
	ID           string
	IngredientID string
	Type         string          // PURCHASE, ADJUSTMENT, USAGE
	Quantity     decimal.Decimal // con signo: positivo aumenta stock
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	Reference    string // factura, orden de producción, nota de ajuste
	CreatedAt    time.Time
}

// IsPurchase indica si la transacción es una compra con precio y cantidad válidos
// para efectos de costeo.
func (t *StockTransaction) IsPurchase() bool {
	return t.Type == TxTypePurchase &&
		t.Quantity.GreaterThan(decimal.Zero) &&
		t.UnitPrice.GreaterThan(decimal.Zero)
}

// IsConsumption indica si la transacción reduce stock (uso o ajuste negativo).
func (t *StockTransaction) IsConsumption() bool {
	if t.Type == TxTypeUsage {
		return true
	}
	return t.Type == TxTypeAdjustment && t.Quantity.LessThan(decimal.Zero)
}

// ConsumedQuantity cantidad consumida en valor absoluto (cero si no consume).
func (t *StockTransaction) ConsumedQuantity() decimal.Decimal {
	if !t.IsConsumption() {
		return decimal.Zero
	}
	return t.Quantity.Abs()
}
