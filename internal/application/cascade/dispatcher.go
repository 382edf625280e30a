package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// Recalculator puerto hacia el motor de recálculo (lo satisface
// hpp.RecalculateUseCase; en tests se sustituye por un fake).
type Recalculator interface {
	Recalculate(ctx context.Context, recipeID, userID string) (*entity.HppSnapshot, error)
}

// Config política de batching del despachador. Tamaño de chunk y demora
// vienen de configuración: no hay constantes de negocio documentadas.
type Config struct {
	ChunkSize     int           // recetas recalculadas en paralelo por chunk (default 10)
	ChunkDelay    time.Duration // pausa entre chunks para acotar ráfagas al store (default 100ms)
	RecalcTimeout time.Duration // tope por recálculo individual (default 30s)
	MaxRetries    int           // reintentos por receta ante fallo de store (default 1)
}

// DefaultConfig valores por defecto del despachador.
func DefaultConfig() Config {
	return Config{
		ChunkSize:     10,
		ChunkDelay:    100 * time.Millisecond,
		RecalcTimeout: 30 * time.Second,
		MaxRetries:    1,
	}
}

func (c Config) normalized() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 10
	}
	if c.RecalcTimeout <= 0 {
		c.RecalcTimeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return c
}

// Failure fallo de una receta dentro de un despacho.
type Failure struct {
	RecipeID string
	Err      string
}

// Summary resultado de un despacho: cuántas recetas se tocaron, cuántas
// salieron bien y el detalle de las que fallaron.
type Summary struct {
	Kind         entity.EventKind
	TotalRecipes int
	SuccessCount int
	Failures     []Failure
	Elapsed      time.Duration
}

// Dispatcher consume eventos de dominio, resuelve el conjunto de recetas
// afectadas y conduce el recálculo por chunks con tolerancia a fallos
// parciales. Redespachar el mismo evento es seguro: cada recálculo solo
// agrega snapshots, nunca muta acumuladores.
type Dispatcher struct {
	recipeRepo repository.RecipeRepository
	recalc     Recalculator
	resolvers  map[entity.EventKind]resolverFunc
	cfg        Config
	log        *logger.Logger
}

// NewDispatcher construye el despachador con su tabla de resolvers.
func NewDispatcher(recipeRepo repository.RecipeRepository, recalc Recalculator, cfg Config, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		recipeRepo: recipeRepo,
		recalc:     recalc,
		cfg:        cfg.normalized(),
		log:        log,
	}
	d.resolvers = d.buildResolvers()
	return d
}

// Dispatch procesa un evento: resuelve las recetas afectadas, las recalcula
// por chunks y devuelve el resumen.
// Un payload malformado o un kind desconocido abortan el evento completo con
// domain.ErrInvalidEvent (no hay conjunto de recetas que derivar); a partir
// de ahí ningún fallo individual detiene la cascada.
func (d *Dispatcher) Dispatch(ctx context.Context, ev entity.WorkflowEvent) (*Summary, error) {
	start := time.Now()
	d.log.Info().
		Str("kind", string(ev.Kind)).
		Str("entity_id", ev.EntityID).
		Msg("evento recibido")

	recipeIDs, err := d.resolve(ctx, ev)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Kind: ev.Kind, TotalRecipes: len(recipeIDs)}
	if len(recipeIDs) == 0 {
		d.log.Info().Str("kind", string(ev.Kind)).Msg("evento sin recetas afectadas")
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	// Chunks secuenciales; dentro de cada chunk las recetas se recalculan
	// concurrentemente. Un chunk iniciado corre hasta el final (sin
	// cancelación a mitad de chunk).
	for i := 0; i < len(recipeIDs); i += d.cfg.ChunkSize {
		end := i + d.cfg.ChunkSize
		if end > len(recipeIDs) {
			end = len(recipeIDs)
		}
		d.runChunk(ctx, recipeIDs[i:end], ev.UserID, summary)

		if end < len(recipeIDs) && d.cfg.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
				// Entre chunks sí se respeta la cancelación: lo que falta
				// queda registrado como fallido para poder reintentarlo.
				for _, id := range recipeIDs[end:] {
					summary.Failures = append(summary.Failures, Failure{RecipeID: id, Err: ctx.Err().Error()})
				}
				summary.Elapsed = time.Since(start)
				return summary, nil
			case <-time.After(d.cfg.ChunkDelay):
			}
		}
	}

	summary.Elapsed = time.Since(start)
	d.log.Info().
		Str("kind", string(ev.Kind)).
		Int("total", summary.TotalRecipes).
		Int("success", summary.SuccessCount).
		Int("failures", len(summary.Failures)).
		Dur("elapsed", summary.Elapsed).
		Msg("cascada resumida")
	return summary, nil
}

// runChunk recalcula las recetas del chunk en paralelo. El fallo de una
// receta se captura en el resumen y no detiene a las demás.
func (d *Dispatcher) runChunk(ctx context.Context, recipeIDs []string, userID string, summary *Summary) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range recipeIDs {
		wg.Add(1)
		go func(recipeID string) {
			defer wg.Done()
			err := d.recalculateWithRetry(ctx, recipeID, userID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failures = append(summary.Failures, Failure{RecipeID: recipeID, Err: err.Error()})
				return
			}
			summary.SuccessCount++
		}(id)
	}
	wg.Wait()
}

// recalculateWithRetry un recálculo acotado por timeout, con un reintento
// ante fallos de store. Los errores de dominio (no encontrado, entrada
// inválida) no se reintentan: volver a intentar no los arregla.
func (d *Dispatcher) recalculateWithRetry(ctx context.Context, recipeID, userID string) error {
	var lastErr error
	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, d.cfg.RecalcTimeout)
		_, err := d.recalc.Recalculate(callCtx, recipeID, userID)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err
		if domain.IsDomainError(err) {
			return err
		}
		d.log.Warn().
			Err(err).
			Str("recipe_id", recipeID).
			Int("attempt", attempt+1).
			Msg("recálculo fallido")
	}
	return lastErr
}
