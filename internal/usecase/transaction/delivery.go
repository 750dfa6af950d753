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

type UpdateDeliveryInput struct {
	OwnerID       uuid.UUID
	TransactionID uuid.UUID
	Status        string
}

type UpdateDeliveryStatusUseCase struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	notifier        repository.Notifier
}

func NewUpdateDeliveryStatusUseCase(
	txManager repository.TxManager,
	transactionRepo repository.TransactionRepository,
	notifier repository.Notifier,
) *UpdateDeliveryStatusUseCase {
	return &UpdateDeliveryStatusUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		notifier:        notifier,
	}
}

// Execute проверяет сначала наличие сделки и права продавца, затем сам статус.
func (uc *UpdateDeliveryStatusUseCase) Execute(ctx context.Context, input UpdateDeliveryInput) (*entity.Transaction, error) {
	var (
		updated *entity.Transaction
		changed bool
	)

	err := uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		t, err := uc.transactionRepo.FindByIDForUpdate(ctx, input.TransactionID)
		if err != nil {
			return err
		}
		if t.OwnerID != input.OwnerID {
			return apperror.Forbidden("статус доставки меняет только продавец")
		}

		status, err := valueobject.NewDeliveryStatus(input.Status)
		if err != nil {
			return err
		}

		changed, err = t.UpdateDelivery(input.OwnerID, status)
		if err != nil {
			return err
		}
		if changed {
			if err := uc.transactionRepo.Update(ctx, t); err != nil {
				return err
			}
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		event.Publish(uc.notifier, updated.BuyerID, repository.EventDeliveryUpdated, map[string]interface{}{
			"transaction_id":  updated.ID,
			"delivery_status": updated.DeliveryStatus,
		})
	}

	return updated, nil
}
