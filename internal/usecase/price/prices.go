package price

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
	HistoryMonths      = 6
)

type RecentPricesUseCase struct {
	priceRepo repository.PriceHistoryRepository
}

func NewRecentPricesUseCase(priceRepo repository.PriceHistoryRepository) *RecentPricesUseCase {
	return &RecentPricesUseCase{priceRepo: priceRepo}
}

func (uc *RecentPricesUseCase) Execute(ctx context.Context, limit int) ([]*entity.PriceRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return uc.priceRepo.Recent(ctx, limit)
}

type SuggestPriceUseCase struct {
	oracle repository.PriceOracle
}

func NewSuggestPriceUseCase(oracle repository.PriceOracle) *SuggestPriceUseCase {
	return &SuggestPriceUseCase{oracle: oracle}
}

// Execute возвращает nil, если у оракула нет сигнала или он недоступен.
func (uc *SuggestPriceUseCase) Execute(ctx context.Context, q entity.PriceQuery) (*float64, error) {
	if strings.TrimSpace(q.Crop) == "" {
		return nil, apperror.Validation("название культуры обязательно")
	}
	if q.Quantity < 0 {
		return nil, apperror.Validation("количество не может быть отрицательным")
	}

	suggested, err := uc.oracle.RecommendPrice(ctx, q)
	if err != nil {
		logger.Warn(err, "оракул цен недоступен", logrus.Fields{"crop": q.Crop})
		return nil, nil
	}
	if suggested == nil || *suggested <= 0 {
		return nil, nil
	}
	return suggested, nil
}

// PriceHistoryUseCase строит помесячные средние цены культуры за последние HistoryMonths месяцев.
type PriceHistoryUseCase struct {
	priceRepo repository.PriceHistoryRepository
}

func NewPriceHistoryUseCase(priceRepo repository.PriceHistoryRepository) *PriceHistoryUseCase {
	return &PriceHistoryUseCase{priceRepo: priceRepo}
}

func (uc *PriceHistoryUseCase) Execute(ctx context.Context, crop string, now time.Time) (*entity.PriceHistory, error) {
	crop = entity.NormalizePriceCrop(crop)
	if crop == "" {
		return nil, apperror.Validation("параметр crop обязателен")
	}

	records, err := uc.priceRepo.FindSince(ctx, crop, entity.HistoryStart(now, HistoryMonths))
	if err != nil {
		return nil, err
	}
	return entity.BuildMonthlyHistory(crop, records, now, HistoryMonths), nil
}
