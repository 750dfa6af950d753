package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	// FindByIDForUpdate блокирует строку до конца транзакции из контекста.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.ListingStatus) error
	// ApplyBid атомарно увеличивает bid_count и поднимает current_price до amount.
	ApplyBid(ctx context.Context, id uuid.UUID, amount float64) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListingFilter) ([]*entity.Listing, int, error)
	FindSimilar(ctx context.Context, listing *entity.Listing, limit int) ([]*entity.Listing, error)
	DistinctNames(ctx context.Context) ([]string, error)
	// FindExpirable возвращает id выставленных объявлений, у которых истёк bid_end_date или expiry_date.
	FindExpirable(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

type ListingFilter struct {
	Search   string
	CropName string
	Price    valueobject.PriceRange
	Quality  string
	OwnerID  *uuid.UUID
	// Status пустой — любой статус.
	Status string
	Limit  int
	Offset int
}
