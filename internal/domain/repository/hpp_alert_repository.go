package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// HppAlertRepository puerto de persistencia de alertas de HPP.
type HppAlertRepository interface {
	Insert(ctx context.Context, a *entity.HppAlert) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.HppAlert, error)
	MarkRead(ctx context.Context, id string) error
}
