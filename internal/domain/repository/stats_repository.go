package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
)

type StatsRepository interface {
	FarmerStats(ctx context.Context, ownerID uuid.UUID) (*entity.FarmerStats, error)
	BuyerStats(ctx context.Context, buyerID uuid.UUID) (*entity.BuyerStats, error)
}
