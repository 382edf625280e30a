package hpp_test

import (
	"context"
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
// Vector del impacto de costos:
//
//	Receta con 5 kg de harina. Compras: 130 (anterior) y 100 (más reciente).
//	Delta = 100 - 130 = -30 por kg → impacto = -30 × 5 = -150
//	Porcentaje = -30 / 130 = -23.08%
// ──────────────────────────────────────────────────────────────────────────────

func TestCostImpact_VectorExacto(t *testing.T) {
	env := buildImpactEnv()
	uc := hpp.NewCostImpactUseCase(env.recipeRepo, env.stockTxRepo)

	report, err := uc.CostImpact(context.Background(), "rec-1")

	require.NoError(t, err)
	require.Len(t, report.Ingredients, 1)
	item := report.Ingredients[0]

	assert.True(t, decimal.NewFromInt(100).Equal(item.LatestPrice))
	assert.True(t, decimal.NewFromInt(130).Equal(item.PreviousPrice))
	assert.True(t, decimal.NewFromInt(-30).Equal(item.ChangeAmount))
	assert.True(t, decimal.NewFromInt(-150).Equal(item.ImpactAmount),
		"el delta de -30 sobre 5 kg debe impactar en -150, fue %s", item.ImpactAmount)
	require.NotNil(t, item.ChangePercent)
	assert.True(t, decimal.RequireFromString("-23.08").Equal(*item.ChangePercent))
	assert.True(t, decimal.NewFromInt(-150).Equal(report.PriceChangeImpact))
}

// TestCostImpact_UnaSolaCompra verifica que con una sola compra no hay delta
// que medir: solo se reporta el precio más reciente.
func TestCostImpact_UnaSolaCompra(t *testing.T) {
	env := buildImpactEnv()
	env.stockTxRepo.byIngredient["ing-harina"] = env.stockTxRepo.byIngredient["ing-harina"][:1]
	uc := hpp.NewCostImpactUseCase(env.recipeRepo, env.stockTxRepo)

	report, err := uc.CostImpact(context.Background(), "rec-1")

	require.NoError(t, err)
	item := report.Ingredients[0]
	assert.True(t, decimal.NewFromInt(130).Equal(item.LatestPrice))
	assert.True(t, item.ChangeAmount.IsZero(), "una sola compra no tiene contra qué compararse")
	assert.True(t, item.ImpactAmount.IsZero())
	assert.Nil(t, item.ChangePercent)
}

// TestCostImpact_SinCompras verifica el reporte vacío: sin compras la fecha de
// última actualización cae al updated_at de la receta.
func TestCostImpact_SinCompras(t *testing.T) {
	env := buildImpactEnv()
	env.stockTxRepo.byIngredient = map[string][]*entity.StockTransaction{}
	uc := hpp.NewCostImpactUseCase(env.recipeRepo, env.stockTxRepo)

	report, err := uc.CostImpact(context.Background(), "rec-1")

	require.NoError(t, err)
	item := report.Ingredients[0]
	assert.True(t, item.LatestPrice.IsZero())
	assert.Nil(t, item.LastPurchase)
	assert.Equal(t, env.recipeRepo.details["rec-1"].Recipe.UpdatedAt, report.LastPriceUpdate)
}

// TestCostImpact_PrecioAnteriorCero verifica que el porcentaje queda nulo
// cuando el precio anterior es 0 (sin división por cero).
func TestCostImpact_PrecioAnteriorCero(t *testing.T) {
	env := buildImpactEnv()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// Compra de regalo (precio 0) como anterior: hay delta en monto pero el
	// porcentaje no tiene base de comparación.
	env.stockTxRepo.byIngredient["ing-harina"] = []*entity.StockTransaction{
		{IngredientID: "ing-harina", Type: entity.TxTypePurchase,
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), CreatedAt: base.AddDate(0, 0, 2)},
		{IngredientID: "ing-harina", Type: entity.TxTypePurchase,
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.Zero, CreatedAt: base},
	}
	uc := hpp.NewCostImpactUseCase(env.recipeRepo, env.stockTxRepo)

	report, err := uc.CostImpact(context.Background(), "rec-1")

	require.NoError(t, err)
	item := report.Ingredients[0]
	assert.True(t, decimal.NewFromInt(100).Equal(item.ChangeAmount))
	assert.Nil(t, item.ChangePercent, "con precio anterior 0 el porcentaje debe quedar nulo")
}

// TestCostImpact_FechaUltimaCompra verifica que el reporte toma la fecha de
// compra más reciente entre todos los ingredientes.
func TestCostImpact_FechaUltimaCompra(t *testing.T) {
	env := buildImpactEnv()
	uc := hpp.NewCostImpactUseCase(env.recipeRepo, env.stockTxRepo)

	report, err := uc.CostImpact(context.Background(), "rec-1")

	require.NoError(t, err)
	expected := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, expected, report.LastPriceUpdate)
}

func TestCostImpact_RecetaInexistente(t *testing.T) {
	env := buildImpactEnv()
	uc := hpp.NewCostImpactUseCase(env.recipeRepo, env.stockTxRepo)

	_, err := uc.CostImpact(context.Background(), "rec-fantasma")

	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

// ── entorno de prueba ─────────────────────────────────────────────────────────

type impactEnv struct {
	recipeRepo  *fakeRecipeRepo
	stockTxRepo *fakeStockTxRepo
}

func buildImpactEnv() *impactEnv {
	harina := &entity.Ingredient{
		ID: "ing-harina", UserID: "user-1", Name: "Harina", Unit: "kg",
		PricePerUnit: decimal.NewFromInt(95), IsActive: true,
	}
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	return &impactEnv{
		recipeRepo: &fakeRecipeRepo{details: map[string]*entity.RecipeDetail{
			"rec-1": {
				Recipe: entity.Recipe{ID: "rec-1", UserID: "user-1", Name: "Pan campesino",
					Servings: 1, IsActive: true, UpdatedAt: base.AddDate(0, -1, 0)},
				Ingredients: []entity.RecipeIngredient{
					{RecipeID: "rec-1", IngredientID: "ing-harina",
						Quantity: decimal.NewFromInt(5), Unit: "kg", Ingredient: harina},
				},
			},
		}},
		stockTxRepo: &fakeStockTxRepo{byIngredient: map[string][]*entity.StockTransaction{
			"ing-harina": {
				{IngredientID: "ing-harina", Type: entity.TxTypePurchase,
					Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(130), CreatedAt: base.AddDate(0, 0, 1)},
				{IngredientID: "ing-harina", Type: entity.TxTypePurchase,
					Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100), CreatedAt: base.AddDate(0, 0, 2)},
			},
		}},
	}
}
