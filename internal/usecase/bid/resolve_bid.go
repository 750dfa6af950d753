package bid

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/event"
)

type ResolveBidInput struct {
	OwnerID        uuid.UUID
	BidID          uuid.UUID
	Action         string
	CounterAmount  *float64
	CounterMessage *string
}

type ResolveBidUseCase struct {
	txManager   repository.TxManager
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
	notifier    repository.Notifier
}

func NewResolveBidUseCase(
	txManager repository.TxManager,
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
	notifier repository.Notifier,
) *ResolveBidUseCase {
	return &ResolveBidUseCase{
		txManager:   txManager,
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
		notifier:    notifier,
	}
}

func (uc *ResolveBidUseCase) Execute(ctx context.Context, input ResolveBidInput) (*entity.Bid, error) {
	action, err := valueobject.NewBidAction(input.Action)
	if err != nil {
		return nil, err
	}

	var (
		resolved *entity.Bid
		changed  bool
	)

	err = uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		b, err := uc.bidRepo.FindByIDForUpdate(ctx, input.BidID)
		if err != nil {
			return err
		}
		if b.OwnerID != input.OwnerID {
			return apperror.Forbidden("решение по ставке принимает только владелец объявления")
		}

		switch action {
		case valueobject.BidActionAccept:
			changed, err = uc.accept(ctx, b)
		case valueobject.BidActionReject:
			changed, err = true, b.Reject()
		case valueobject.BidActionCounter:
			var amount float64
			if input.CounterAmount != nil {
				amount = *input.CounterAmount
			}
			changed, err = true, b.Counter(amount, input.CounterMessage)
		}
		if err != nil {
			return err
		}

		if changed {
			if err := uc.bidRepo.Update(ctx, b); err != nil {
				return err
			}
		}
		resolved = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		event.Publish(uc.notifier, resolved.BidderID, repository.EventBidResolved, map[string]interface{}{
			"bid_id":         resolved.ID,
			"listing_id":     resolved.ListingID,
			"status":         resolved.Status,
			"counter_amount": resolved.CounterAmount,
		})
	}

	return resolved, nil
}

// accept резервирует объявление вместе с принятием ставки. Повторное принятие ничего не меняет.
func (uc *ResolveBidUseCase) accept(ctx context.Context, b *entity.Bid) (bool, error) {
	if b.Status == valueobject.BidStatusAccepted {
		return false, nil
	}
	if b.Status.IsResolved() {
		return false, apperror.Conflict("ставка уже отклонена")
	}

	listing, err := uc.listingRepo.FindByIDForUpdate(ctx, b.ListingID)
	if err != nil {
		return false, err
	}
	if err := listing.Reserve(); err != nil {
		return false, err
	}

	if _, err := b.Accept(); err != nil {
		return false, err
	}
	if err := uc.listingRepo.UpdateStatus(ctx, listing.ID, listing.Status); err != nil {
		return false, err
	}
	return true, nil
}
