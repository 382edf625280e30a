package hpp

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// QueryUseCase lecturas sobre snapshots, alertas e insights de precio.
// Todo son lentes sobre datos ya persistidos (el único write es marcar
// una alerta como leída).
type QueryUseCase struct {
	snapshotRepo   repository.HppSnapshotRepository
	alertRepo      repository.HppAlertRepository
	ingredientRepo repository.IngredientRepository
	stockTxRepo    repository.StockTransactionRepository
	cfg            CostingConfig
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	snapshotRepo repository.HppSnapshotRepository,
	alertRepo repository.HppAlertRepository,
	ingredientRepo repository.IngredientRepository,
	stockTxRepo repository.StockTransactionRepository,
	cfg CostingConfig,
) *QueryUseCase {
	return &QueryUseCase{
		snapshotRepo:   snapshotRepo,
		alertRepo:      alertRepo,
		ingredientRepo: ingredientRepo,
		stockTxRepo:    stockTxRepo,
		cfg:            cfg,
	}
}

// Snapshots tendencia de HPP de una receta en los últimos `days` días
// (range scan simple gracias al modelo append-only).
func (uc *QueryUseCase) Snapshots(ctx context.Context, recipeID string, days int) ([]dto.SnapshotDTO, error) {
	if days <= 0 {
		days = 30
	}
	from := time.Now().AddDate(0, 0, -days)
	snapshots, err := uc.snapshotRepo.ListByRecipe(ctx, recipeID, from)
	if err != nil {
		return nil, fmt.Errorf("snapshots de %s: %w", recipeID, err)
	}

	out := make([]dto.SnapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, dto.SnapshotDTO{
			ID:                 s.ID,
			RecipeID:           s.RecipeID,
			SnapshotDate:       s.SnapshotDate,
			HppValue:           s.HppValue,
			MaterialCost:       s.MaterialCost,
			OperationalCost:    s.OperationalCost,
			CostPerServing:     s.CostPerServing,
			MarginPercentage:   s.MarginPercentage,
			Degraded:           s.Degraded,
			MissingIngredients: s.MissingIngredients,
		})
	}
	return out, nil
}

// Alerts alertas del usuario, opcionalmente solo las no leídas.
func (uc *QueryUseCase) Alerts(ctx context.Context, userID string, unreadOnly bool, limit int) ([]dto.AlertDTO, error) {
	if limit <= 0 {
		limit = 50
	}
	alerts, err := uc.alertRepo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("alertas: %w", err)
	}

	out := make([]dto.AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.AlertDTO{
			ID:               a.ID,
			RecipeID:         a.RecipeID,
			AlertType:        a.AlertType,
			Message:          a.Message,
			OldValue:         a.OldValue,
			NewValue:         a.NewValue,
			ChangePercentage: a.ChangePercentage,
			IsRead:           a.IsRead,
			CreatedAt:        a.CreatedAt,
		})
	}
	return out, nil
}

// MarkAlertRead marca una alerta como leída.
func (uc *QueryUseCase) MarkAlertRead(ctx context.Context, id string) error {
	return uc.alertRepo.MarkRead(ctx, id)
}

// PricingInsights recomendación de precio para un ingrediente: los tres
// métodos de costeo más niveles de venta sugeridos sobre el método elegido.
func (uc *QueryUseCase) PricingInsights(ctx context.Context, ingredientID string) (*dto.PricingInsightDTO, error) {
	ing, err := uc.ingredientRepo.GetByID(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	txs, err := uc.stockTxRepo.ListByIngredient(ctx, ingredientID, uc.cfg.TxHistoryCap)
	if err != nil {
		return nil, fmt.Errorf("historial de %s: %w", ingredientID, err)
	}

	insight := costing.GeneratePricingInsights(ing, txs, uc.cfg.MovingAvgWindow, uc.cfg.InsightDivergencePct)

	out := &dto.PricingInsightDTO{
		IngredientID:    ingredientID,
		Method:          insight.Method,
		SuggestedPrice:  insight.SuggestedPrice,
		Rationale:       insight.Rationale,
		WeightedAverage: insight.WeightedAverage,
		FIFOAverage:     insight.FIFOAverage,
		MovingAverage:   insight.MovingAverage,
		ListPrice:       insight.ListPrice,
		Volatile:        insight.Volatile,
		VolatilityCoeff: insight.Volatility.Coefficient,
		Recommendations: insight.Recommendations,
	}
	for _, tier := range costing.SuggestSellingPrices(insight.SuggestedPrice) {
		out.SuggestedTiers = append(out.SuggestedTiers, dto.PriceTierDTO{
			Tier:      tier.Tier,
			Price:     tier.Price,
			MarginPct: tier.MarginPct,
		})
	}
	return out, nil
}
