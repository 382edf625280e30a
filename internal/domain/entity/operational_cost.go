package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frecuencias de costo operacional.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Factores de normalización a mes.
var (
	daysPerMonth  = decimal.NewFromInt(30)
	weeksPerMonth = decimal.NewFromFloat(4.33)
	monthsPerYear = decimal.NewFromInt(12)
)

// OperationalCost costo operacional amortizable (no ligado a una receta).
type OperationalCost struct {
	ID        string
	UserID    string
	Category  string // rent, utilities, labor, depreciation, other
	Name      string
	Amount    decimal.Decimal
	Frequency string // daily, weekly, monthly, yearly
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthlyAmount normaliza el monto a su equivalente mensual:
// daily×30, weekly×4.33, monthly×1, yearly÷12.
func (c *OperationalCost) MonthlyAmount() decimal.Decimal {
	switch c.Frequency {
	case FrequencyDaily:
		return c.Amount.Mul(daysPerMonth)
	case FrequencyWeekly:
		return c.Amount.Mul(weeksPerMonth)
	case FrequencyYearly:
		return c.Amount.Div(monthsPerYear)
	default: // monthly o frecuencia desconocida: se toma tal cual
		return c.Amount
	}
}
