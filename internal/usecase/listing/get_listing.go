package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

const (
	topBidsLimit = 5
	similarLimit = 5
)

type ListingDetail struct {
	Listing *entity.Listing
	TopBids []*entity.Bid
	Similar []*entity.Listing
}

type GetListingDetailUseCase struct {
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
}

func NewGetListingDetailUseCase(listingRepo repository.ListingRepository, bidRepo repository.BidRepository) *GetListingDetailUseCase {
	return &GetListingDetailUseCase{
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
	}
}

// Execute принимает сырой id из URL: некорректный id равнозначен отсутствующему объявлению.
func (uc *GetListingDetailUseCase) Execute(ctx context.Context, rawID string) (*ListingDetail, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperror.ErrListingNotFound
	}

	listing, err := uc.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.listingRepo.IncrementViewCount(ctx, id); err != nil {
		logger.Warn(err, "не удалось увеличить счётчик просмотров", logrus.Fields{"listing_id": id})
	} else {
		listing.ViewCount++
	}

	detail := &ListingDetail{Listing: listing}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bids, err := uc.bidRepo.TopByListing(gctx, id, topBidsLimit)
		if err != nil {
			return err
		}
		detail.TopBids = bids
		return nil
	})
	g.Go(func() error {
		similar, err := uc.listingRepo.FindSimilar(gctx, listing, similarLimit)
		if err != nil {
			return err
		}
		detail.Similar = similar
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}
