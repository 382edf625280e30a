package hpp_test

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// Fakes en memoria para los casos de uso. Implementan los mismos puertos que
// los adaptadores de postgres; los tests no tocan la BD.

type fakeRecipeRepo struct {
	details map[string]*entity.RecipeDetail
}

func (f *fakeRecipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	r := d.Recipe
	return &r, nil
}

func (f *fakeRecipeRepo) GetDetail(_ context.Context, id string) (*entity.RecipeDetail, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return d, nil
}

func (f *fakeRecipeRepo) ListIDsByIngredient(_ context.Context, ingredientID string) ([]string, error) {
	var ids []string
	for id, d := range f.details {
		for _, line := range d.Ingredients {
			if line.IngredientID == ingredientID {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeRecipeRepo) ListActiveIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for id, d := range f.details {
		if d.Recipe.UserID == userID && d.Recipe.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeStockTxRepo struct {
	byIngredient map[string][]*entity.StockTransaction
}

func (f *fakeStockTxRepo) ListByIngredient(_ context.Context, ingredientID string, limit int) ([]*entity.StockTransaction, error) {
	txs := f.byIngredient[ingredientID]
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (f *fakeStockTxRepo) ListRecentPurchases(_ context.Context, ingredientID string, limit int) ([]*entity.StockTransaction, error) {
	var purchases []*entity.StockTransaction
	for _, t := range f.byIngredient[ingredientID] {
		if t.Type == entity.TxTypePurchase {
			purchases = append(purchases, t)
		}
	}
	// Más reciente primero, como el adaptador real.
	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].CreatedAt.After(purchases[j].CreatedAt)
	})
	if limit > 0 && len(purchases) > limit {
		purchases = purchases[:limit]
	}
	return purchases, nil
}

type fakeCostRepo struct {
	costs []*entity.OperationalCost
}

func (f *fakeCostRepo) ListActive(_ context.Context, _ string) ([]*entity.OperationalCost, error) {
	var active []*entity.OperationalCost
	for _, c := range f.costs {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

type fakeSnapshotRepo struct {
	snapshots []*entity.HppSnapshot
	insertErr error
}

func (f *fakeSnapshotRepo) Insert(_ context.Context, s *entity.HppSnapshot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeSnapshotRepo) GetLatest(_ context.Context, recipeID string) (*entity.HppSnapshot, error) {
	var latest *entity.HppSnapshot
	for _, s := range f.snapshots {
		if s.RecipeID != recipeID {
			continue
		}
		if latest == nil || s.SnapshotDate.After(latest.SnapshotDate) {
			latest = s
		}
	}
	return latest, nil
}

func (f *fakeSnapshotRepo) ListByRecipe(_ context.Context, recipeID string, from time.Time) ([]*entity.HppSnapshot, error) {
	var out []*entity.HppSnapshot
	for _, s := range f.snapshots {
		if s.RecipeID == recipeID && !s.SnapshotDate.Before(from) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SnapshotDate.Before(out[j].SnapshotDate)
	})
	return out, nil
}

type fakeAlertRepo struct {
	alerts []*entity.HppAlert
}

func (f *fakeAlertRepo) Insert(_ context.Context, a *entity.HppAlert) error {
	f.alerts = append(f.alerts, a)
	return nil
}

func (f *fakeAlertRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]*entity.HppAlert, error) {
	var out []*entity.HppAlert
	for _, a := range f.alerts {
		if a.UserID != userID {
			continue
		}
		if unreadOnly && a.IsRead {
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) MarkRead(_ context.Context, id string) error {
	for _, a := range f.alerts {
		if a.ID == id {
			a.IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeTxRunner ejecuta el callback directamente sobre los repos en memoria.
type fakeTxRunner struct {
	snapshotRepo repository.HppSnapshotRepository
	alertRepo    repository.HppAlertRepository
	runErr       error
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	snapshotRepo repository.HppSnapshotRepository,
	alertRepo repository.HppAlertRepository,
) error) error {
	if f.runErr != nil {
		return f.runErr
	}
	return fn(f.snapshotRepo, f.alertRepo)
}

// testLogger logger silencioso para tests.
func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}
