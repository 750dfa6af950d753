package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
)

type PlaceBidRequest struct {
	ListingID string  `json:"listing_id" binding:"required"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
}

type ResolveBidRequest struct {
	Action         string   `json:"action" binding:"required"`
	CounterAmount  *float64 `json:"counter_amount"`
	CounterMessage *string  `json:"counter_message"`
}

type BidResponse struct {
	ID             uuid.UUID `json:"id"`
	ListingID      uuid.UUID `json:"listing_id"`
	BidderID       uuid.UUID `json:"bidder_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	CounterAmount  *float64  `json:"counter_amount"`
	CounterMessage *string   `json:"counter_message"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToBidResponse(b *entity.Bid) BidResponse {
	return BidResponse{
		ID:             b.ID,
		ListingID:      b.ListingID,
		BidderID:       b.BidderID,
		OwnerID:        b.OwnerID,
		Amount:         b.Amount,
		Status:         string(b.Status),
		Message:        b.Message,
		CounterAmount:  b.CounterAmount,
		CounterMessage: b.CounterMessage,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func ToBidResponses(bids []*entity.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ToBidResponse(b))
	}
	return out
}
