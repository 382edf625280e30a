package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// StockTransactionRepository puerto de lectura del historial de transacciones.
// Las transacciones son inmutables; este subsistema nunca las escribe.
type StockTransactionRepository interface {
	// ListByIngredient historial ordenado por fecha descendente, acotado a limit.
	ListByIngredient(ctx context.Context, ingredientID string, limit int) ([]*entity.StockTransaction, error)
	// ListRecentPurchases últimas compras (PURCHASE) por fecha descendente.
	ListRecentPurchases(ctx context.Context, ingredientID string, limit int) ([]*entity.StockTransaction, error)
}
