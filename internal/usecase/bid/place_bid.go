package bid

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/event"
)

type PlaceBidInput struct {
	BidderID  uuid.UUID
	ListingID uuid.UUID
	Amount    float64
	Message   string
}

type PlaceBidUseCase struct {
	txManager   repository.TxManager
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
	notifier    repository.Notifier
}

func NewPlaceBidUseCase(
	txManager repository.TxManager,
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
	notifier repository.Notifier,
) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		txManager:   txManager,
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
		notifier:    notifier,
	}
}

// Execute создаёт ставку и обновляет агрегат объявления в одной транзакции под блокировкой строки.
func (uc *PlaceBidUseCase) Execute(ctx context.Context, input PlaceBidInput) (*entity.Bid, error) {
	var placed *entity.Bid

	err := uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		listing, err := uc.listingRepo.FindByIDForUpdate(ctx, input.ListingID)
		if err != nil {
			return err
		}

		b, err := entity.NewBid(listing, input.BidderID, input.Amount, input.Message)
		if err != nil {
			return err
		}

		if err := uc.bidRepo.Create(ctx, b); err != nil {
			return err
		}
		if err := uc.listingRepo.ApplyBid(ctx, listing.ID, b.Amount); err != nil {
			return err
		}

		placed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.Publish(uc.notifier, placed.OwnerID, repository.EventBidPlaced, map[string]interface{}{
		"bid_id":     placed.ID,
		"listing_id": placed.ListingID,
		"amount":     placed.Amount,
	})

	return placed, nil
}
