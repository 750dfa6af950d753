package bid

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
)

// StatusAll снимает фильтр по статусу для входящих ставок.
const StatusAll = "all"

type ListBuyerBidsUseCase struct {
	bidRepo repository.BidRepository
}

func NewListBuyerBidsUseCase(bidRepo repository.BidRepository) *ListBuyerBidsUseCase {
	return &ListBuyerBidsUseCase{bidRepo: bidRepo}
}

func (uc *ListBuyerBidsUseCase) Execute(ctx context.Context, bidderID uuid.UUID) ([]*entity.Bid, error) {
	return uc.bidRepo.FindByBidder(ctx, bidderID)
}

type ListReceivedBidsUseCase struct {
	bidRepo repository.BidRepository
}

func NewListReceivedBidsUseCase(bidRepo repository.BidRepository) *ListReceivedBidsUseCase {
	return &ListReceivedBidsUseCase{bidRepo: bidRepo}
}

// Execute без статуса возвращает ожидающие ставки.
func (uc *ListReceivedBidsUseCase) Execute(ctx context.Context, ownerID uuid.UUID, status string) ([]*entity.Bid, error) {
	switch status {
	case "":
		status = string(valueobject.BidStatusPending)
	case StatusAll:
		status = ""
	default:
		if _, err := valueobject.NewBidStatus(status); err != nil {
			return nil, err
		}
	}
	return uc.bidRepo.FindByOwner(ctx, ownerID, status)
}
