package stats

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
)

type FarmerStatsUseCase struct {
	statsRepo repository.StatsRepository
}

func NewFarmerStatsUseCase(statsRepo repository.StatsRepository) *FarmerStatsUseCase {
	return &FarmerStatsUseCase{statsRepo: statsRepo}
}

func (uc *FarmerStatsUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*entity.FarmerStats, error) {
	s, err := uc.statsRepo.FarmerStats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.Earnings = valueobject.RoundPrice(s.Earnings)
	return s, nil
}

type BuyerStatsUseCase struct {
	statsRepo repository.StatsRepository
}

func NewBuyerStatsUseCase(statsRepo repository.StatsRepository) *BuyerStatsUseCase {
	return &BuyerStatsUseCase{statsRepo: statsRepo}
}

func (uc *BuyerStatsUseCase) Execute(ctx context.Context, buyerID uuid.UUID) (*entity.BuyerStats, error) {
	s, err := uc.statsRepo.BuyerStats(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	s.TotalSpent = valueobject.RoundPrice(s.TotalSpent)
	return s, nil
}
