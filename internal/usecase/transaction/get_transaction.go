package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

const (
	RoleBuyer  = "buyer"
	RoleFarmer = "farmer"
)

type GetTransactionUseCase struct {
	transactionRepo repository.TransactionRepository
}

func NewGetTransactionUseCase(transactionRepo repository.TransactionRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{transactionRepo: transactionRepo}
}

func (uc *GetTransactionUseCase) Execute(ctx context.Context, callerID, transactionID uuid.UUID) (*entity.Transaction, error) {
	t, err := uc.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !t.IsParty(callerID) {
		return nil, apperror.Forbidden("нет доступа к сделке")
	}
	return t, nil
}

type ListTransactionsUseCase struct {
	transactionRepo repository.TransactionRepository
}

func NewListTransactionsUseCase(transactionRepo repository.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactionRepo: transactionRepo}
}

// Execute: role buyer (по умолчанию) — покупки вызывающего, farmer — его продажи.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, callerID uuid.UUID, role, paymentStatus string) ([]*entity.Transaction, error) {
	var filter repository.TransactionFilter

	switch role {
	case "", RoleBuyer:
		filter.BuyerID = &callerID
	case RoleFarmer:
		filter.OwnerID = &callerID
	default:
		return nil, apperror.Validation("роль должна быть buyer или farmer")
	}

	if paymentStatus != "" {
		if _, err := valueobject.NewPaymentStatus(paymentStatus); err != nil {
			return nil, err
		}
		filter.PaymentStatus = paymentStatus
	}

	return uc.transactionRepo.List(ctx, filter)
}
