package listing

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage ограничивает смещение (page-1)*limit.
	MaxPage         = 100000
)

type QueryListingsInput struct {
	Search   string
	CropName string
	MinPrice *float64
	MaxPrice *float64
	Quality  string
	OwnerID  *uuid.UUID
	Status   string
	// AnyStatus снимает фильтр listed по умолчанию.
	AnyStatus bool
	Page      int
	Limit     int
}

type ListingPage struct {
	Items      []*entity.Listing
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

type QueryListingsUseCase struct {
	listingRepo repository.ListingRepository
}

func NewQueryListingsUseCase(listingRepo repository.ListingRepository) *QueryListingsUseCase {
	return &QueryListingsUseCase{listingRepo: listingRepo}
}

func (uc *QueryListingsUseCase) Execute(ctx context.Context, input QueryListingsInput) (*ListingPage, error) {
	status := input.Status
	if status == "" && !input.AnyStatus {
		status = string(valueobject.ListingStatusListed)
	}
	if status != "" {
		if _, err := valueobject.NewListingStatus(status); err != nil {
			return nil, err
		}
	}
	if input.Quality != "" {
		if _, err := valueobject.NewQualityGrade(input.Quality); err != nil {
			return nil, err
		}
	}

	priceRange, err := valueobject.NewPriceRange(input.MinPrice, input.MaxPrice)
	if err != nil {
		return nil, err
	}

	page, limit, err := normalizePage(input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	items, total, err := uc.listingRepo.List(ctx, repository.ListingFilter{
		Search:   input.Search,
		CropName: input.CropName,
		Price:    priceRange,
		Quality:  input.Quality,
		OwnerID:  input.OwnerID,
		Status:   status,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListingPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func normalizePage(page, limit int) (int, int, error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		return 0, 0, apperror.Validation(fmt.Sprintf("номер страницы не может превышать %d", MaxPage))
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, nil
}

// ListMyListingsUseCase — объявления владельца в любом статусе, если фильтр не задан.
type ListMyListingsUseCase struct {
	query *QueryListingsUseCase
}

func NewListMyListingsUseCase(listingRepo repository.ListingRepository) *ListMyListingsUseCase {
	return &ListMyListingsUseCase{query: NewQueryListingsUseCase(listingRepo)}
}

func (uc *ListMyListingsUseCase) Execute(ctx context.Context, ownerID uuid.UUID, status string, page, limit int) (*ListingPage, error) {
	return uc.query.Execute(ctx, QueryListingsInput{
		OwnerID:   &ownerID,
		Status:    status,
		AnyStatus: true,
		Page:      page,
		Limit:     limit,
	})
}

type ListCropNamesUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListCropNamesUseCase(listingRepo repository.ListingRepository) *ListCropNamesUseCase {
	return &ListCropNamesUseCase{listingRepo: listingRepo}
}

func (uc *ListCropNamesUseCase) Execute(ctx context.Context) ([]string, error) {
	names, err := uc.listingRepo.DistinctNames(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		normalized := entity.NormalizeCropName(name)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	sort.Strings(result)
	return result, nil
}
