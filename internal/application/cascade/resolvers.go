package cascade

import (
	"context"
	"fmt"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// resolverFunc deriva el conjunto de recetas afectadas por un evento.
type resolverFunc func(ctx context.Context, ev entity.WorkflowEvent) ([]string, error)

// buildResolvers tabla explícita kind → resolver. Un kind sin entrada es un
// evento inválido, no un no-op silencioso.
func (d *Dispatcher) buildResolvers() map[entity.EventKind]resolverFunc {
	return map[entity.EventKind]resolverFunc{
		// Compra de ingrediente: se recalculan las recetas que lo usan.
		entity.EventIngredientPurchased: d.resolveByIngredient,

		// Cambio en costos operacionales: el overhead amortizado toca a todas
		// las recetas activas del usuario.
		entity.EventOperationalCostChanged: d.resolveAllActive,

		// Snapshot programado: barrido completo del usuario.
		entity.EventScheduledSnapshot: d.resolveAllActive,

		// Eventos de receta única: el EntityID ya es la receta.
		entity.EventRecipeUpdated:       d.resolveSingleRecipe,
		entity.EventProductionCompleted: d.resolveSingleRecipe,
	}
}

// resolve valida el evento y deriva las recetas afectadas, deduplicadas y en
// orden determinista (el orden en que las entrega el repositorio).
func (d *Dispatcher) resolve(ctx context.Context, ev entity.WorkflowEvent) ([]string, error) {
	fn, ok := d.resolvers[ev.Kind]
	if !ok {
		return nil, fmt.Errorf("kind %q: %w", ev.Kind, domain.ErrInvalidEvent)
	}
	ids, err := fn(ctx, ev)
	if err != nil {
		return nil, err
	}
	return dedupe(ids), nil
}

func (d *Dispatcher) resolveByIngredient(ctx context.Context, ev entity.WorkflowEvent) ([]string, error) {
	if ev.EntityID == "" {
		return nil, fmt.Errorf("kind %q sin entity_id: %w", ev.Kind, domain.ErrInvalidEvent)
	}
	ids, err := d.recipeRepo.ListIDsByIngredient(ctx, ev.EntityID)
	if err != nil {
		return nil, fmt.Errorf("recetas por ingrediente %s: %w", ev.EntityID, err)
	}
	return ids, nil
}

func (d *Dispatcher) resolveAllActive(ctx context.Context, ev entity.WorkflowEvent) ([]string, error) {
	if ev.UserID == "" {
		return nil, fmt.Errorf("kind %q sin user_id: %w", ev.Kind, domain.ErrInvalidEvent)
	}
	ids, err := d.recipeRepo.ListActiveIDs(ctx, ev.UserID)
	if err != nil {
		return nil, fmt.Errorf("recetas activas de %s: %w", ev.UserID, err)
	}
	return ids, nil
}

func (d *Dispatcher) resolveSingleRecipe(_ context.Context, ev entity.WorkflowEvent) ([]string, error) {
	if ev.EntityID == "" {
		return nil, fmt.Errorf("kind %q sin entity_id: %w", ev.Kind, domain.ErrInvalidEvent)
	}
	return []string{ev.EntityID}, nil
}

// dedupe conserva la primera aparición de cada id.
func dedupe(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
