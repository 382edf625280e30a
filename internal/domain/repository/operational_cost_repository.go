package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// OperationalCostRepository puerto de lectura de costos operacionales.
type OperationalCostRepository interface {
	ListActive(ctx context.Context, userID string) ([]*entity.OperationalCost, error)
}
