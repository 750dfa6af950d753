package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/event"
)

type CreateTransactionInput struct {
	BuyerID       uuid.UUID
	BidID         uuid.UUID
	PaymentMethod string
}

type CreateTransactionOutput struct {
	Transaction *entity.Transaction
	// Created=false — сделка по ставке уже существовала.
	Created bool
}

type CreateTransactionUseCase struct {
	bidRepo         repository.BidRepository
	transactionRepo repository.TransactionRepository
	notifier        repository.Notifier
}

func NewCreateTransactionUseCase(
	bidRepo repository.BidRepository,
	transactionRepo repository.TransactionRepository,
	notifier repository.Notifier,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		bidRepo:         bidRepo,
		transactionRepo: transactionRepo,
		notifier:        notifier,
	}
}

func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	method, err := valueobject.NewPaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	b, err := uc.bidRepo.FindByID(ctx, input.BidID)
	if err != nil {
		return nil, err
	}
	if b.BidderID != input.BuyerID {
		return nil, apperror.Forbidden("сделку может оформить только автор ставки")
	}

	existing, err := uc.transactionRepo.FindByBidID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreateTransactionOutput{Transaction: existing}, nil
	}

	t, err := entity.NewTransaction(b, input.BuyerID, method)
	if err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, t); err != nil {
		if !apperror.IsConflict(err) {
			return nil, err
		}
		// Параллельный запрос успел создать сделку первым.
		winner, findErr := uc.transactionRepo.FindByBidID(ctx, b.ID)
		if findErr != nil {
			return nil, findErr
		}
		if winner == nil {
			return nil, err
		}
		return &CreateTransactionOutput{Transaction: winner}, nil
	}

	event.Publish(uc.notifier, t.OwnerID, repository.EventTransactionCreated, map[string]interface{}{
		"transaction_id": t.ID,
		"bid_id":         t.BidID,
		"listing_id":     t.ListingID,
		"amount":         t.Amount,
	})

	return &CreateTransactionOutput{Transaction: t, Created: true}, nil
}
