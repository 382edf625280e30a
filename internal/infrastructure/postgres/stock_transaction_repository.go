package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo lectura del historial inmutable de transacciones de
// stock. Este subsistema nunca escribe transacciones.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const stockTxColumns = `id, ingredient_id, type, quantity, unit_price, total_price, reference, created_at`

// ListByIngredient historial del ingrediente por fecha descendente, acotado a limit.
func (r *StockTransactionRepo) ListByIngredient(ctx context.Context, ingredientID string, limit int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT ` + stockTxColumns + `
		FROM stock_transactions WHERE ingredient_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, ingredientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	return scanStockTransactions(rows)
}

// ListRecentPurchases últimas compras por fecha descendente.
func (r *StockTransactionRepo) ListRecentPurchases(ctx context.Context, ingredientID string, limit int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT ` + stockTxColumns + `
		FROM stock_transactions WHERE ingredient_id = $1 AND type = $2
		ORDER BY created_at DESC LIMIT $3`
	rows, err := r.q.Query(ctx, query, ingredientID, entity.TxTypePurchase, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent purchases: %w", err)
	}
	defer rows.Close()
	return scanStockTransactions(rows)
}

func scanStockTransactions(rows pgx.Rows) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		if err := rows.Scan(&t.ID, &t.IngredientID, &t.Type, &t.Quantity,
			&t.UnitPrice, &t.TotalPrice, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
