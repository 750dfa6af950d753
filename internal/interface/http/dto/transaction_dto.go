package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
)

type CreateTransactionRequest struct {
	BidID         string `json:"bid_id" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

type ProcessPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type UpdateDeliveryRequest struct {
	Status string `json:"delivery_status" binding:"required"`
}

type TransactionResponse struct {
	ID             uuid.UUID `json:"id"`
	BidID          uuid.UUID `json:"bid_id"`
	ListingID      uuid.UUID `json:"listing_id"`
	BuyerID        uuid.UUID `json:"buyer_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentMethod  string    `json:"payment_method"`
	Reference      *string   `json:"payment_reference"`
	DeliveryStatus string    `json:"delivery_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		BidID:          t.BidID,
		ListingID:      t.ListingID,
		BuyerID:        t.BuyerID,
		OwnerID:        t.OwnerID,
		Amount:         t.Amount,
		Currency:       valueobject.DefaultCurrency,
		PaymentStatus:  string(t.PaymentStatus),
		PaymentMethod:  string(t.PaymentMethod),
		Reference:      t.Reference,
		DeliveryStatus: string(t.DeliveryStatus),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func ToTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}
