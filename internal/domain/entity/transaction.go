package entity

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

type Transaction struct {
	ID             uuid.UUID
	BidID          uuid.UUID
	ListingID      uuid.UUID
	BuyerID        uuid.UUID
	OwnerID        uuid.UUID
	Amount         float64
	PaymentStatus  valueobject.PaymentStatus
	PaymentMethod  valueobject.PaymentMethod
	Reference      *string
	DeliveryStatus valueobject.DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTransaction оформляет сделку по принятой ставке; сумма берётся из ставки.
func NewTransaction(bid *Bid, buyerID uuid.UUID, method valueobject.PaymentMethod) (*Transaction, error) {
	if bid.BidderID != buyerID {
		return nil, apperror.Forbidden("сделку может оформить только автор ставки")
	}
	if bid.Status != valueobject.BidStatusAccepted {
		return nil, apperror.Conflict("ставка ещё не принята")
	}

	now := time.Now()
	return &Transaction{
		ID:             uuid.New(),
		BidID:          bid.ID,
		ListingID:      bid.ListingID,
		BuyerID:        bid.BidderID,
		OwnerID:        bid.OwnerID,
		Amount:         bid.Amount,
		PaymentStatus:  valueobject.PaymentStatusPending,
		PaymentMethod:  method,
		DeliveryStatus: valueobject.DeliveryStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (t *Transaction) IsParty(userID uuid.UUID) bool {
	return t.BuyerID == userID || t.OwnerID == userID
}

func (t *Transaction) CompletePayment(buyerID uuid.UUID, method valueobject.PaymentMethod) error {
	if t.BuyerID != buyerID {
		return apperror.Forbidden("оплатить сделку может только покупатель")
	}
	if t.PaymentStatus == valueobject.PaymentStatusCompleted {
		return apperror.Conflict("сделка уже оплачена")
	}

	now := time.Now()
	ref := PaymentReference(now)
	t.PaymentStatus = valueobject.PaymentStatusCompleted
	t.PaymentMethod = method
	t.Reference = &ref
	t.UpdatedAt = now
	return nil
}

// UpdateDelivery возвращает false, если статус не изменился.
func (t *Transaction) UpdateDelivery(ownerID uuid.UUID, status valueobject.DeliveryStatus) (bool, error) {
	if t.OwnerID != ownerID {
		return false, apperror.Forbidden("статус доставки меняет только продавец")
	}
	if t.DeliveryStatus == status {
		return false, nil
	}
	if !t.DeliveryStatus.CanTransitionTo(status) {
		return false, apperror.Conflict(fmt.Sprintf("недопустимый переход доставки %s → %s", t.DeliveryStatus, status))
	}
	t.DeliveryStatus = status
	t.UpdatedAt = time.Now()
	return true, nil
}

// UnitPrice — цена за единицу товара для истории цен.
func (t *Transaction) UnitPrice(quantity float64) float64 {
	if quantity <= 0 {
		return t.Amount
	}
	return valueobject.RoundPrice(t.Amount / quantity)
}

func PaymentReference(at time.Time) string {
	return fmt.Sprintf("TXN_%d_%03d", at.UnixMilli(), rand.IntN(1000))
}
