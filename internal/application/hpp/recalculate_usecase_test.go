package hpp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/internal/application/hpp"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vector del recálculo:
//
//	Receta "rec-1": 2 kg de harina, 1 porción, sin costos operacionales.
//	Compras de harina: 10 @ 100 y 10 @ 120 → promedio ponderado 110.
//	HPP esperado = 2 × 110 = 220
// ──────────────────────────────────────────────────────────────────────────────

func TestRecalculate_VectorExacto(t *testing.T) {
	env := buildRecalcEnv()
	uc := env.usecase()

	snap, err := uc.Recalculate(context.Background(), "rec-1", "user-1")

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(220).Equal(snap.HppValue),
		"HPP de 2 kg a promedio 110 debe ser 220, fue %s", snap.HppValue)
	assert.False(t, snap.Degraded)
	require.Len(t, env.snapshotRepo.snapshots, 1, "debe insertarse exactamente un snapshot")
	assert.Empty(t, env.alertRepo.alerts, "sin snapshot anterior no hay base para alertar")
}

// TestRecalculate_AppendOnly verifica que cada recálculo inserta un snapshot
// nuevo y que con el mismo historial el valor es idéntico (idempotencia).
func TestRecalculate_AppendOnly(t *testing.T) {
	env := buildRecalcEnv()
	uc := env.usecase()

	first, err := uc.Recalculate(context.Background(), "rec-1", "user-1")
	require.NoError(t, err)
	second, err := uc.Recalculate(context.Background(), "rec-1", "user-1")
	require.NoError(t, err)

	assert.Len(t, env.snapshotRepo.snapshots, 2, "cada recálculo agrega una fila, nunca actualiza")
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.HppValue.Equal(second.HppValue),
		"mismo historial debe producir el mismo HPP")
	assert.Empty(t, env.alertRepo.alerts, "un delta de 0%% no debe alertar")
}

// TestRecalculate_AlertaPorSubida verifica la alerta cuando el delta contra el
// snapshot anterior supera el umbral del 5%: de 200 a 220 hay un 10%.
func TestRecalculate_AlertaPorSubida(t *testing.T) {
	env := buildRecalcEnv()
	env.seedPrevious("200")
	uc := env.usecase()

	snap, err := uc.Recalculate(context.Background(), "rec-1", "user-1")

	require.NoError(t, err)
	require.Len(t, env.alertRepo.alerts, 1)
	alert := env.alertRepo.alerts[0]
	assert.Equal(t, entity.AlertPriceIncrease, alert.AlertType)
	assert.True(t, decimal.NewFromInt(10).Equal(alert.ChangePercentage),
		"de 200 a 220 el cambio es 10%%, fue %s", alert.ChangePercentage)
	assert.True(t, snap.HppValue.Equal(alert.NewValue))
}

// TestRecalculate_AlertaPorBajada verifica la alerta de bajada: de 250 a 220
// hay un -12%.
func TestRecalculate_AlertaPorBajada(t *testing.T) {
	env := buildRecalcEnv()
	env.seedPrevious("250")
	uc := env.usecase()

	_, err := uc.Recalculate(context.Background(), "rec-1", "user-1")

	require.NoError(t, err)
	require.Len(t, env.alertRepo.alerts, 1)
	assert.Equal(t, entity.AlertPriceDecrease, env.alertRepo.alerts[0].AlertType)
	assert.True(t, decimal.NewFromInt(-12).Equal(env.alertRepo.alerts[0].ChangePercentage))
}

// TestRecalculate_DeltaBajoUmbralNoAlerta verifica que un cambio dentro del
// umbral no genera ruido: de 212 a 220 hay un 3.77%.
func TestRecalculate_DeltaBajoUmbralNoAlerta(t *testing.T) {
	env := buildRecalcEnv()
	env.seedPrevious("212")
	uc := env.usecase()

	_, err := uc.Recalculate(context.Background(), "rec-1", "user-1")

	require.NoError(t, err)
	assert.Empty(t, env.alertRepo.alerts, "un delta del 3.77%% no debe superar el umbral del 5%%")
}

// TestRecalculate_RecetaInexistente verifica el error de dominio sin efectos
// colaterales: ni snapshot ni alerta.
func TestRecalculate_RecetaInexistente(t *testing.T) {
	env := buildRecalcEnv()
	uc := env.usecase()

	_, err := uc.Recalculate(context.Background(), "rec-fantasma", "user-1")

	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.Empty(t, env.snapshotRepo.snapshots)
	assert.Empty(t, env.alertRepo.alerts)
}

// TestRecalculate_IngredienteFaltanteDegrada verifica que un ingrediente
// borrado no bloquea el recálculo: la línea va a cero y el snapshot queda
// marcado como degradado.
func TestRecalculate_IngredienteFaltanteDegrada(t *testing.T) {
	env := buildRecalcEnv()
	detail := env.recipeRepo.details["rec-1"]
	detail.Ingredients = append(detail.Ingredients, entity.RecipeIngredient{
		RecipeID:     "rec-1",
		IngredientID: "ing-borrado",
		Quantity:     decimal.NewFromInt(3),
		Ingredient:   nil,
	})
	uc := env.usecase()

	snap, err := uc.Recalculate(context.Background(), "rec-1", "user-1")

	require.NoError(t, err)
	assert.True(t, snap.Degraded)
	assert.Contains(t, snap.MissingIngredients, "ing-borrado")
	assert.True(t, decimal.NewFromInt(220).Equal(snap.HppValue),
		"la línea faltante se costea en cero, el resto de la receta no cambia")
}

// TestRecalculate_FalloDeTransaccion verifica que un fallo al persistir se
// propaga y no deja snapshot a medias visible.
func TestRecalculate_FalloDeTransaccion(t *testing.T) {
	env := buildRecalcEnv()
	env.txRunner.runErr = errors.New("conexión perdida")
	uc := env.usecase()

	_, err := uc.Recalculate(context.Background(), "rec-1", "user-1")

	require.Error(t, err)
	assert.False(t, domain.IsDomainError(err), "un fallo de store no es error de dominio (es reintentable)")
	assert.Empty(t, env.snapshotRepo.snapshots)
}

// TestRecalculate_CostosOperacionalesAmortizados verifica la suma del overhead:
// 1000 mensuales / volumen 1000 = 1 por unidad × 1 porción.
func TestRecalculate_CostosOperacionalesAmortizados(t *testing.T) {
	env := buildRecalcEnv()
	env.costRepo.costs = []*entity.OperationalCost{
		{ID: "cost-1", UserID: "user-1", Name: "Arriendo", Amount: decimal.NewFromInt(1000),
			Frequency: entity.FrequencyMonthly, IsActive: true},
	}
	uc := env.usecase()

	snap, err := uc.Recalculate(context.Background(), "rec-1", "user-1")

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(snap.OperationalCost),
		"1000 mensuales entre 1000 unidades es 1 por porción, fue %s", snap.OperationalCost)
	assert.True(t, decimal.NewFromInt(221).Equal(snap.HppValue))
}

// ── entorno de prueba ─────────────────────────────────────────────────────────

type recalcEnv struct {
	recipeRepo   *fakeRecipeRepo
	stockTxRepo  *fakeStockTxRepo
	costRepo     *fakeCostRepo
	snapshotRepo *fakeSnapshotRepo
	alertRepo    *fakeAlertRepo
	txRunner     *fakeTxRunner
}

func buildRecalcEnv() *recalcEnv {
	harina := &entity.Ingredient{
		ID: "ing-harina", UserID: "user-1", Name: "Harina", Unit: "kg",
		PricePerUnit: decimal.NewFromInt(95), IsActive: true,
	}
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	env := &recalcEnv{
		recipeRepo: &fakeRecipeRepo{details: map[string]*entity.RecipeDetail{
			"rec-1": {
				Recipe: entity.Recipe{ID: "rec-1", UserID: "user-1", Name: "Pan campesino",
					Servings: 1, IsActive: true, UpdatedAt: base},
				Ingredients: []entity.RecipeIngredient{
					{RecipeID: "rec-1", IngredientID: "ing-harina",
						Quantity: decimal.NewFromInt(2), Unit: "kg", Ingredient: harina},
				},
			},
		}},
		stockTxRepo: &fakeStockTxRepo{byIngredient: map[string][]*entity.StockTransaction{
			"ing-harina": {
				{IngredientID: "ing-harina", Type: entity.TxTypePurchase,
					Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100), CreatedAt: base},
				{IngredientID: "ing-harina", Type: entity.TxTypePurchase,
					Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(120), CreatedAt: base.AddDate(0, 0, 1)},
			},
		}},
		costRepo:     &fakeCostRepo{},
		snapshotRepo: &fakeSnapshotRepo{},
		alertRepo:    &fakeAlertRepo{},
	}
	env.txRunner = &fakeTxRunner{snapshotRepo: env.snapshotRepo, alertRepo: env.alertRepo}
	return env
}

func (e *recalcEnv) usecase() *hpp.RecalculateUseCase {
	return hpp.NewRecalculateUseCase(
		e.recipeRepo, e.stockTxRepo, e.costRepo, e.snapshotRepo,
		e.txRunner, hpp.NoopCache{}, hpp.DefaultCostingConfig(), testLogger(),
	)
}

// seedPrevious inserta un snapshot anterior con el HPP dado.
func (e *recalcEnv) seedPrevious(hppValue string) {
	e.snapshotRepo.snapshots = append(e.snapshotRepo.snapshots, &entity.HppSnapshot{
		ID:           "snap-previo",
		RecipeID:     "rec-1",
		UserID:       "user-1",
		SnapshotDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		HppValue:     decimal.RequireFromString(hppValue),
	})
}
