package hpp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// CostingConfig política del motor de recálculo. Umbral y divisor de overhead
// son configurables: no hay constantes de negocio documentadas detrás.
type CostingConfig struct {
	AlertThresholdPct        decimal.Decimal // delta relativo que dispara alerta (default 5)
	MovingAvgWindow          int             // ventana del promedio móvil
	TxHistoryCap             int             // tope de transacciones leídas por ingrediente
	DefaultMonthlyUnitVolume decimal.Decimal // divisor de amortización cuando no hay señal de volumen
	InsightDivergencePct     decimal.Decimal // divergencia entre métodos que señala volatilidad (default 10)
}

// DefaultCostingConfig valores por defecto.
func DefaultCostingConfig() CostingConfig {
	return CostingConfig{
		AlertThresholdPct:        decimal.NewFromInt(5),
		MovingAvgWindow:          costing.DefaultMovingAvgWindow,
		TxHistoryCap:             500,
		DefaultMonthlyUnitVolume: decimal.NewFromInt(1000),
		InsightDivergencePct:     costing.DefaultDivergencePct,
	}
}

// RecalculateUseCase motor de recálculo de HPP para una receta: lee receta e
// ingredientes, agrega costos, persiste un snapshot nuevo (append, nunca
// update) y genera alerta si el delta contra el snapshot anterior supera el
// umbral. Idempotente por construcción: reejecutar con el mismo historial
// produce snapshots de igual valor.
type RecalculateUseCase struct {
	recipeRepo   repository.RecipeRepository
	stockTxRepo  repository.StockTransactionRepository
	costRepo     repository.OperationalCostRepository
	snapshotRepo repository.HppSnapshotRepository
	txRunner     TxRunner
	cache        RecalcCache
	cfg          CostingConfig
	log          *logger.Logger
}

// NewRecalculateUseCase construye el caso de uso.
func NewRecalculateUseCase(
	recipeRepo repository.RecipeRepository,
	stockTxRepo repository.StockTransactionRepository,
	costRepo repository.OperationalCostRepository,
	snapshotRepo repository.HppSnapshotRepository,
	txRunner TxRunner,
	cache RecalcCache,
	cfg CostingConfig,
	log *logger.Logger,
) *RecalculateUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &RecalculateUseCase{
		recipeRepo:   recipeRepo,
		stockTxRepo:  stockTxRepo,
		costRepo:     costRepo,
		snapshotRepo: snapshotRepo,
		txRunner:     txRunner,
		cache:        cache,
		cfg:          cfg,
		log:          log,
	}
}

// Recalculate recalcula el HPP de la receta y devuelve el snapshot insertado.
// Receta inexistente → domain.ErrRecipeNotFound, sin snapshot.
// Ingrediente faltante → línea a costo cero y snapshot degradado, no error.
func (uc *RecalculateUseCase) Recalculate(ctx context.Context, recipeID, userID string) (*entity.HppSnapshot, error) {
	detail, err := uc.recipeRepo.GetDetail(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	// Costo vigente por ingrediente: promedio ponderado sobre el historial.
	costs := make(map[string]decimal.Decimal, len(detail.Ingredients))
	for _, line := range detail.Ingredients {
		if line.Ingredient == nil {
			continue // el agregador marcará la línea como degradada
		}
		txs, err := uc.stockTxRepo.ListByIngredient(ctx, line.IngredientID, uc.cfg.TxHistoryCap)
		if err != nil {
			return nil, fmt.Errorf("historial de %s: %w", line.IngredientID, err)
		}
		costs[line.IngredientID] = costing.WeightedAveragePrice(line.Ingredient, txs).Price
	}

	activeCosts, err := uc.costRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("costos operacionales: %w", err)
	}

	result := costing.AggregateRecipeCost(costing.AggregateInput{
		Recipe:          detail.Recipe,
		Lines:           detail.Ingredients,
		IngredientCosts: costs,
		ActiveCosts:     activeCosts,
		Policy: costing.OverheadPolicy{
			DefaultMonthlyUnitVolume: uc.cfg.DefaultMonthlyUnitVolume,
		},
	})

	previous, err := uc.previousSnapshot(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snapshot := &entity.HppSnapshot{
		ID:                 uuid.New().String(),
		RecipeID:           recipeID,
		UserID:             userID,
		SnapshotDate:       now,
		HppValue:           result.HppValue,
		MaterialCost:       result.MaterialCost,
		OperationalCost:    result.OperationalCost,
		CostPerServing:     result.CostPerServing,
		MarginPercentage:   result.MarginPercentage,
		Degraded:           result.Degraded,
		MissingIngredients: result.MissingIngredients,
		CreatedAt:          now,
	}

	alert := uc.buildAlert(snapshot, previous)

	// Snapshot y alerta en una sola transacción.
	err = uc.txRunner.Run(ctx, func(
		snapRepo repository.HppSnapshotRepository,
		alertRepo repository.HppAlertRepository,
	) error {
		if err := snapRepo.Insert(ctx, snapshot); err != nil {
			return err
		}
		if alert != nil {
			return alertRepo.Insert(ctx, alert)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persistir snapshot: %w", err)
	}

	uc.cache.SetLatest(ctx, snapshot)

	evt := uc.log.Info().
		Str("recipe_id", recipeID).
		Str("hpp", snapshot.HppValue.String()).
		Bool("degraded", snapshot.Degraded)
	if alert != nil {
		evt = evt.Str("alert", alert.AlertType)
	}
	evt.Msg("HPP recalculado")

	return snapshot, nil
}

// previousSnapshot snapshot anterior vía caché, con fallback al store.
func (uc *RecalculateUseCase) previousSnapshot(ctx context.Context, recipeID string) (*entity.HppSnapshot, error) {
	if s, ok := uc.cache.GetLatest(ctx, recipeID); ok {
		return s, nil
	}
	s, err := uc.snapshotRepo.GetLatest(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("snapshot anterior: %w", err)
	}
	return s, nil
}

// buildAlert compara contra el snapshot anterior y arma la alerta si
// |Δhpp| / anterior supera el umbral. Sin snapshot anterior (o anterior en
// cero) no hay base de comparación y no se alerta.
func (uc *RecalculateUseCase) buildAlert(current, previous *entity.HppSnapshot) *entity.HppAlert {
	if previous == nil || previous.HppValue.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	hundred := decimal.NewFromInt(100)
	changePct := current.HppValue.Sub(previous.HppValue).Div(previous.HppValue).Mul(hundred)
	if changePct.Abs().LessThanOrEqual(uc.cfg.AlertThresholdPct) {
		return nil
	}

	alertType := entity.AlertPriceIncrease
	direction := "subió"
	if changePct.IsNegative() {
		alertType = entity.AlertPriceDecrease
		direction = "bajó"
	}

	return &entity.HppAlert{
		ID:        uuid.New().String(),
		RecipeID:  current.RecipeID,
		UserID:    current.UserID,
		AlertType: alertType,
		Message: fmt.Sprintf("el HPP %s %s%% (de %s a %s)",
			direction, changePct.Abs().Round(1), previous.HppValue.Round(2), current.HppValue.Round(2)),
		OldValue:         previous.HppValue,
		NewValue:         current.HppValue,
		ChangePercentage: changePct.Round(2),
		CreatedAt:        current.SnapshotDate,
	}
}
