package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
)

const forecastHorizonDays = 7

type CreateListingInput struct {
	OwnerID uuid.UUID
	Attrs   entity.ListingAttrs
}

type CreateListingOutput struct {
	Listing  *entity.Listing
	Forecast *entity.PriceForecast
}

type CreateListingUseCase struct {
	listingRepo repository.ListingRepository
	oracle      repository.PriceOracle
}

func NewCreateListingUseCase(listingRepo repository.ListingRepository, oracle repository.PriceOracle) *CreateListingUseCase {
	return &CreateListingUseCase{
		listingRepo: listingRepo,
		oracle:      oracle,
	}
}

func (uc *CreateListingUseCase) Execute(ctx context.Context, input CreateListingInput) (*CreateListingOutput, error) {
	attrs := input.Attrs
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	price := attrs.MinPrice
	if attrs.CurrentPrice != nil {
		price = *attrs.CurrentPrice
	} else if recommended := uc.recommend(ctx, attrs); recommended != nil {
		price = *recommended
	}

	listing, err := entity.NewListing(input.OwnerID, attrs, price)
	if err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return &CreateListingOutput{
		Listing:  listing,
		Forecast: uc.forecast(ctx, listing),
	}, nil
}

// recommend возвращает nil, если оракул молчит, ответил не положительной ценой или упал.
func (uc *CreateListingUseCase) recommend(ctx context.Context, attrs entity.ListingAttrs) *float64 {
	price, err := uc.oracle.RecommendPrice(ctx, entity.PriceQuery{
		Crop:     attrs.Name,
		Quality:  attrs.QualityGrade,
		District: attrs.Location.District,
		Quantity: attrs.Quantity,
	})
	if err != nil {
		logger.Warn(err, "оракул цен недоступен, используется минимальная цена", logrus.Fields{"crop": attrs.Name})
		return nil
	}
	if price == nil || *price <= 0 {
		return nil
	}
	return price
}

func (uc *CreateListingUseCase) forecast(ctx context.Context, l *entity.Listing) *entity.PriceForecast {
	forecast, err := uc.oracle.ForecastPrice(ctx, l.Name, l.Location.District, forecastHorizonDays)
	if err != nil {
		logger.Warn(err, "не удалось получить прогноз цены", logrus.Fields{"listing_id": l.ID})
		return nil
	}
	return forecast
}
