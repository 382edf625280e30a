package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/application/cascade"
	"github.com/jhoicas/costeo-api/internal/application/hpp"
	infracache "github.com/jhoicas/costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/costeo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/costeo-api/internal/interfaces/http"
	"github.com/jhoicas/costeo-api/pkg/config"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ingredientRepo := postgres.NewIngredientRepository(pool)
	stockTxRepo := postgres.NewStockTransactionRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	costRepo := postgres.NewOperationalCostRepository(pool)
	snapshotRepo := postgres.NewHppSnapshotRepository(pool)
	alertRepo := postgres.NewHppAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin REDIS_ADDR el motor trabaja solo contra PostgreSQL.
	var recalcCache hpp.RecalcCache = hpp.NoopCache{}
	if cfg.Redis.Addr != "" {
		client, err := infracache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, se continúa sin caché")
		} else {
			defer client.Close()
			recalcCache = infracache.NewSnapshotCache(client, cfg.Redis.TTL, log)
		}
	}

	costingCfg := hpp.CostingConfig{
		AlertThresholdPct:        decimal.NewFromFloat(cfg.Costing.AlertThresholdPct),
		MovingAvgWindow:          cfg.Costing.MovingAvgWindow,
		TxHistoryCap:             cfg.Costing.TxHistoryCap,
		DefaultMonthlyUnitVolume: decimal.NewFromInt(cfg.Costing.DefaultMonthlyUnitVolume),
	}

	recalculateUC := hpp.NewRecalculateUseCase(
		recipeRepo, stockTxRepo, costRepo, snapshotRepo,
		txRunner, recalcCache, costingCfg, log,
	)
	costImpactUC := hpp.NewCostImpactUseCase(recipeRepo, stockTxRepo)
	queryUC := hpp.NewQueryUseCase(snapshotRepo, alertRepo, ingredientRepo, stockTxRepo, costingCfg)

	dispatcher := cascade.NewDispatcher(recipeRepo, recalculateUC, cascade.Config{
		ChunkSize:     cfg.Costing.CascadeChunkSize,
		ChunkDelay:    time.Duration(cfg.Costing.CascadeChunkDelayMs) * time.Millisecond,
		RecalcTimeout: time.Duration(cfg.Costing.CascadeRecalcTimeoutSec) * time.Second,
		MaxRetries:    1,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Costea API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecalculateUC: recalculateUC,
		CostImpactUC:  costImpactUC,
		QueryUC:       queryUC,
		Dispatcher:    dispatcher,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
