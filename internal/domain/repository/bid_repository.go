package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
)

type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	// Update сохраняет статус и встречное предложение.
	Update(ctx context.Context, bid *entity.Bid) error
	TopByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*entity.Bid, error)
	FindByBidder(ctx context.Context, bidderID uuid.UUID) ([]*entity.Bid, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, status string) ([]*entity.Bid, error)
}
