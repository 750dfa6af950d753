package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/validation"
)

type Bid struct {
	ID             uuid.UUID
	ListingID      uuid.UUID
	BidderID       uuid.UUID
	OwnerID        uuid.UUID
	Amount         float64
	Status         valueobject.BidStatus
	Message        string
	CounterAmount  *float64
	CounterMessage *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewBid(listing *Listing, bidderID uuid.UUID, amount float64, message string) (*Bid, error) {
	if err := listing.CheckBid(bidderID, amount); err != nil {
		return nil, err
	}
	if err := validation.ValidateMessage(message); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Bid{
		ID:        uuid.New(),
		ListingID: listing.ID,
		BidderID:  bidderID,
		OwnerID:   listing.OwnerID,
		Amount:    valueobject.RoundPrice(amount),
		Status:    valueobject.BidStatusPending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Accept возвращает false, если ставка уже принята и ничего не изменилось.
func (b *Bid) Accept() (bool, error) {
	if b.Status == valueobject.BidStatusAccepted {
		return false, nil
	}
	if b.Status == valueobject.BidStatusRejected {
		return false, apperror.Conflict("ставка уже отклонена")
	}
	b.Status = valueobject.BidStatusAccepted
	b.UpdatedAt = time.Now()
	return true, nil
}

func (b *Bid) Reject() error {
	if b.Status.IsResolved() {
		return apperror.Conflict("ставка уже рассмотрена")
	}
	b.Status = valueobject.BidStatusRejected
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Bid) Counter(amount float64, message *string) error {
	if amount <= 0 {
		return apperror.Validation("встречная цена должна быть больше нуля")
	}
	if message != nil {
		if err := validation.ValidateMessage(*message); err != nil {
			return err
		}
	}
	if b.Status.IsResolved() {
		return apperror.Conflict("ставка уже рассмотрена")
	}
	rounded := valueobject.RoundPrice(amount)
	b.Status = valueobject.BidStatusCountered
	b.CounterAmount = &rounded
	b.CounterMessage = message
	b.UpdatedAt = time.Now()
	return nil
}
