package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/event"
)

type ProcessPaymentInput struct {
	BuyerID       uuid.UUID
	TransactionID uuid.UUID
	// PaymentMethod пустой — остаётся способ, выбранный при оформлении.
	PaymentMethod string
}

type ProcessPaymentUseCase struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	listingRepo     repository.ListingRepository
	priceRepo       repository.PriceHistoryRepository
	notifier        repository.Notifier
}

func NewProcessPaymentUseCase(
	txManager repository.TxManager,
	transactionRepo repository.TransactionRepository,
	listingRepo repository.ListingRepository,
	priceRepo repository.PriceHistoryRepository,
	notifier repository.Notifier,
) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		listingRepo:     listingRepo,
		priceRepo:       priceRepo,
		notifier:        notifier,
	}
}

// Execute имитирует оплату: сделка completed, объявление sold, цена попадает в историю. Всё или ничего.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, input ProcessPaymentInput) (*entity.Transaction, error) {
	var method valueobject.PaymentMethod
	if input.PaymentMethod != "" {
		m, err := valueobject.NewPaymentMethod(input.PaymentMethod)
		if err != nil {
			return nil, err
		}
		method = m
	}

	var paid *entity.Transaction

	err := uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		t, err := uc.transactionRepo.FindByIDForUpdate(ctx, input.TransactionID)
		if err != nil {
			return err
		}

		m := method
		if m == "" {
			m = t.PaymentMethod
		}
		if err := t.CompletePayment(input.BuyerID, m); err != nil {
			return err
		}

		listing, err := uc.listingRepo.FindByIDForUpdate(ctx, t.ListingID)
		if err != nil {
			return err
		}
		if err := listing.MarkSold(); err != nil {
			return err
		}

		if err := uc.transactionRepo.Update(ctx, t); err != nil {
			return err
		}
		if err := uc.listingRepo.UpdateStatus(ctx, listing.ID, listing.Status); err != nil {
			return err
		}
		if err := uc.priceRepo.Append(ctx, entity.NewSalePriceRecord(listing, t)); err != nil {
			return err
		}

		paid = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.Publish(uc.notifier, paid.OwnerID, repository.EventPaymentCompleted, map[string]interface{}{
		"transaction_id": paid.ID,
		"listing_id":     paid.ListingID,
		"amount":         paid.Amount,
		"reference":      paid.Reference,
	})

	return paid, nil
}
