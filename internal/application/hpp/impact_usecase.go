package hpp

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// CostImpactUseCase lente de solo lectura sobre las transacciones existentes:
// compara los dos precios de compra más recientes de cada ingrediente de la
// receta y traduce el delta a impacto monetario.
type CostImpactUseCase struct {
	recipeRepo  repository.RecipeRepository
	stockTxRepo repository.StockTransactionRepository
}

// NewCostImpactUseCase construye el caso de uso.
func NewCostImpactUseCase(
	recipeRepo repository.RecipeRepository,
	stockTxRepo repository.StockTransactionRepository,
) *CostImpactUseCase {
	return &CostImpactUseCase{recipeRepo: recipeRepo, stockTxRepo: stockTxRepo}
}

// CostImpact arma el reporte para una receta. Receta inexistente →
// domain.ErrRecipeNotFound.
func (uc *CostImpactUseCase) CostImpact(ctx context.Context, recipeID string) (*dto.CostImpactReport, error) {
	detail, err := uc.recipeRepo.GetDetail(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	report := &dto.CostImpactReport{
		RecipeID:        recipeID,
		RecipeName:      detail.Recipe.Name,
		Ingredients:     make([]dto.IngredientImpactDTO, 0, len(detail.Ingredients)),
		LastPriceUpdate: detail.Recipe.UpdatedAt,
	}

	hundred := decimal.NewFromInt(100)
	var lastPurchase time.Time

	for _, line := range detail.Ingredients {
		item := dto.IngredientImpactDTO{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
		}

		purchases, err := uc.stockTxRepo.ListRecentPurchases(ctx, line.IngredientID, 2)
		if err != nil {
			return nil, fmt.Errorf("compras de %s: %w", line.IngredientID, err)
		}

		uc.applyDelta(&item, purchases, hundred)
		if item.LastPurchase != nil && item.LastPurchase.After(lastPurchase) {
			lastPurchase = *item.LastPurchase
		}

		report.PriceChangeImpact = report.PriceChangeImpact.Add(item.ImpactAmount)
		report.Ingredients = append(report.Ingredients, item)
	}

	// Máxima fecha de compra observada; sin compras queda el updated_at de la receta.
	if !lastPurchase.IsZero() {
		report.LastPriceUpdate = lastPurchase
	}

	return report, nil
}

// applyDelta llena precios, delta e impacto a partir de las (hasta dos)
// compras más recientes. Con menos de dos compras no hay delta que medir.
func (uc *CostImpactUseCase) applyDelta(item *dto.IngredientImpactDTO, purchases []*entity.StockTransaction, hundred decimal.Decimal) {
	if len(purchases) == 0 {
		return
	}

	latest := purchases[0]
	item.LatestPrice = latest.UnitPrice
	t := latest.CreatedAt
	item.LastPurchase = &t

	if len(purchases) < 2 {
		return
	}

	previous := purchases[1]
	item.PreviousPrice = previous.UnitPrice
	item.ChangeAmount = latest.UnitPrice.Sub(previous.UnitPrice)
	item.ImpactAmount = item.ChangeAmount.Mul(item.Quantity)

	// change_percent es null cuando el precio anterior es 0 (sin división por cero).
	if previous.UnitPrice.GreaterThan(decimal.Zero) {
		pct := item.ChangeAmount.Div(previous.UnitPrice).Mul(hundred).Round(2)
		item.ChangePercent = &pct
	}
}
